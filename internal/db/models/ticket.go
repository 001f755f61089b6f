package models

import (
	"database/sql"
	"time"
)

// Ticket statuses
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"
)

// Ticket priorities
const (
	TicketPriorityLow      = "low"
	TicketPriorityMedium   = "medium"
	TicketPriorityHigh     = "high"
	TicketPriorityCritical = "critical"
)

// Ticket represents a unit of work inside a project. CreatedBy and AssigneeID
// hold user IDs; the *Name fields are populated by joined reads so API
// responses can echo names without extra lookups.
type Ticket struct {
	ID          string         `db:"ticket_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	StoryPoints sql.NullInt64  `db:"story_points"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	ProjectID   string         `db:"project_id"`
	CreatedBy   string         `db:"created_by"`
	AssigneeID  sql.NullString `db:"assignee_id"`

	// Joined columns (see TicketRepository.GetByID / List).
	ProjectName   string         `db:"project_name"`
	CreatedByName string         `db:"created_by_name"`
	AssigneeName  sql.NullString `db:"assignee_name"`
}

// ValidTicketStatus reports whether s is a recognised ticket status.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// ValidTicketPriority reports whether p is a recognised ticket priority.
func ValidTicketPriority(p string) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}
