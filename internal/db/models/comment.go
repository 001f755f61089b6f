package models

import "time"

// Comment is a note attached to a ticket. Comments are removed automatically
// when their ticket is deleted (ON DELETE CASCADE on comments.ticket_id).
type Comment struct {
	ID        string    `db:"comment_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	TicketID  string    `db:"ticket_id"`
	UserID    string    `db:"user_id"`

	// Username of the commenting user, populated by joined reads.
	Username string `db:"username"`
}
