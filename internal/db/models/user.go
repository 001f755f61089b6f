// Package models - user.go defines the User model for tracker accounts with
// username, email, lifecycle status, and the per-user API key issued at creation.
package models

import "time"

// User statuses. A user is created active and can be deactivated via update;
// deactivated users keep their tickets and comments.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents an account in the tracker
type User struct {
	ID           string `db:"user_id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Status       string `db:"status"`
	// APIKey is the opaque key issued to the user at creation time. It is
	// returned once in the create response and never listed afterwards.
	APIKey    string    `db:"api_key"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Optional eager loads populated by UserRepository.GetByID when requested.
	CreatedTickets  []*Ticket `db:"-"`
	AssignedTickets []*Ticket `db:"-"`
}

// ValidUserStatus reports whether s is a recognised user status.
func ValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusInactive
}
