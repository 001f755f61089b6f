// ticket_repository.go implements TicketRepository on top of sqlx. Reads are
// joined with projects and users so every ticket row carries the project name
// and the creator/assignee usernames needed on the wire.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
)

// ticketSelect is the joined projection shared by all ticket reads.
const ticketSelect = `
	SELECT t.ticket_id, t.title, t.description, t.status, t.priority, t.story_points,
	       t.created_at, t.updated_at, t.project_id, t.created_by, t.assignee_id,
	       p.name AS project_name,
	       cu.username AS created_by_name,
	       au.username AS assignee_name
	FROM tickets t
	JOIN projects p ON t.project_id = p.project_id
	JOIN users cu ON t.created_by = cu.user_id
	LEFT JOIN users au ON t.assignee_id = au.user_id
`

// TicketFilter narrows a List call. Zero values mean "no filter".
type TicketFilter struct {
	// ProjectName matches the project name as a case-insensitive substring.
	ProjectName string
	// Title matches exactly.
	Title string
	// CreatorUsername matches the creating user's name as a case-insensitive substring.
	CreatorUsername string
	Limit           int
	Offset          int
}

// TicketRepository handles ticket database operations
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new ticket. The caller supplies title, project, creator,
// and the optional fields; ID and timestamps are assigned here.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.ID = uuid.New().String()
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = models.TicketPriorityMedium
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	query := `
		INSERT INTO tickets (
			ticket_id, title, description, status, priority, story_points,
			created_at, updated_at, project_id, created_by, assignee_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.StoryPoints,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.ProjectID,
		ticket.CreatedBy,
		ticket.AssigneeID,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by ID with the joined project and user names.
// Returns (nil, nil) when no ticket exists.
func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	query := ticketSelect + ` WHERE t.ticket_id = $1`

	var ticket models.Ticket
	err := r.db.GetContext(ctx, &ticket, query, ticketID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &ticket, nil
}

// List retrieves tickets matching the filter. Results are ordered by
// created_at then ticket_id so pagination is deterministic even when several
// tickets share a creation timestamp.
func (r *TicketRepository) List(ctx context.Context, filter TicketFilter) ([]*models.Ticket, error) {
	query := ticketSelect

	conditions := []string{}
	args := []interface{}{}

	if filter.ProjectName != "" {
		args = append(args, "%"+filter.ProjectName+"%")
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if filter.Title != "" {
		args = append(args, filter.Title)
		conditions = append(conditions, fmt.Sprintf("t.title = $%d", len(args)))
	}
	if filter.CreatorUsername != "" {
		args = append(args, "%"+filter.CreatorUsername+"%")
		conditions = append(conditions, fmt.Sprintf("cu.username ILIKE $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY t.created_at ASC, t.ticket_id ASC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	tickets := make([]*models.Ticket, 0)
	if err := r.db.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return tickets, nil
}

// ListByCreator retrieves all tickets created by the given user.
func (r *TicketRepository) ListByCreator(ctx context.Context, userID string) ([]*models.Ticket, error) {
	query := ticketSelect + ` WHERE t.created_by = $1 ORDER BY t.created_at ASC, t.ticket_id ASC`

	tickets := make([]*models.Ticket, 0)
	if err := r.db.SelectContext(ctx, &tickets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tickets by creator: %w", err)
	}

	return tickets, nil
}

// ListByAssignee retrieves all tickets assigned to the given user.
func (r *TicketRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.Ticket, error) {
	query := ticketSelect + ` WHERE t.assignee_id = $1 ORDER BY t.created_at ASC, t.ticket_id ASC`

	tickets := make([]*models.Ticket, 0)
	if err := r.db.SelectContext(ctx, &tickets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tickets by assignee: %w", err)
	}

	return tickets, nil
}

// Update writes the mutable fields (title, description, status, priority,
// story points, assignee) and refreshes updated_at. The returned bool reports
// whether the ticket existed.
func (r *TicketRepository) Update(ctx context.Context, ticket *models.Ticket) (bool, error) {
	ticket.UpdatedAt = time.Now()

	query := `
		UPDATE tickets
		SET title = $2, description = $3, status = $4, priority = $5,
		    story_points = $6, assignee_id = $7, updated_at = $8
		WHERE ticket_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.StoryPoints,
		ticket.AssigneeID,
		ticket.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update ticket: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a ticket. Comments cascade at the database level. The
// returned bool reports whether a row was deleted.
func (r *TicketRepository) Delete(ctx context.Context, ticketID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE ticket_id = $1`, ticketID)
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
