// Package services contains the domain workflows that sit between the HTTP
// handlers and the repositories. Services validate input, run the cross-entity
// checks (does the project exist, is the assignee real), and translate
// repository results into the sentinel errors below. Handlers map sentinels to
// HTTP status codes with errors.Is and never inspect SQL errors directly.
package services

import "errors"

var (
	// ErrTicketNotFound is returned when the addressed ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrCommentNotFound is returned when the addressed comment does not exist
	// or belongs to a different ticket than the one in the request path.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound is returned when a referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrAssigneeNotFound is returned when the requested assignee does not
	// exist. It is distinct from ErrUserNotFound so responses can say which
	// of the two user references on a ticket was bad.
	ErrAssigneeNotFound = errors.New("assignee not found")

	// ErrConflict is returned when a unique constraint (username, email,
	// project name) rejects a write.
	ErrConflict = errors.New("conflict with existing resource")

	// ErrValidation is returned for malformed input. Wrap it with context:
	// fmt.Errorf("%w: title must not be empty", ErrValidation).
	ErrValidation = errors.New("validation failed")
)
