// ticket_service.go implements the ticket workflows. Ticket creation resolves
// the creator, project, and optional assignee by name before any insert; the
// three lookups are independent reads and run concurrently.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
)

// CreateTicketInput carries the fields accepted on ticket creation. Names are
// resolved to IDs here; the caller never supplies raw IDs.
type CreateTicketInput struct {
	Title        string
	Description  *string
	Status       string
	Priority     string
	StoryPoints  *int
	ProjectName  string
	CreatedBy    string
	AssigneeName *string
}

// UpdateTicketInput carries a partial ticket update. Nil fields are left
// unchanged. An AssigneeName pointing at the empty string clears the assignee.
type UpdateTicketInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	StoryPoints  *int
	AssigneeName *string
}

// TicketService implements ticket creation, lookup, listing, update, and delete.
type TicketService struct {
	tickets  *repositories.TicketRepository
	projects *repositories.ProjectRepository
	users    *repositories.UserRepository
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets *repositories.TicketRepository, projects *repositories.ProjectRepository, users *repositories.UserRepository) *TicketService {
	return &TicketService{tickets: tickets, projects: projects, users: users}
}

// Create validates the input, resolves the named project, creator, and
// optional assignee concurrently, and inserts the ticket. Any failed required
// lookup aborts before the insert.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if input.Status != "" && !models.ValidTicketStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}
	if input.Priority != "" && !models.ValidTicketPriority(input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	var (
		creator  *models.User
		project  *models.Project
		assignee *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByUsername(gctx, input.CreatedBy)
		if err != nil {
			return fmt.Errorf("failed to look up creator: %w", err)
		}
		if u == nil {
			return ErrUserNotFound
		}
		creator = u
		return nil
	})
	g.Go(func() error {
		p, err := s.projects.GetByName(gctx, input.ProjectName)
		if err != nil {
			return fmt.Errorf("failed to look up project: %w", err)
		}
		if p == nil {
			return ErrProjectNotFound
		}
		project = p
		return nil
	})
	if input.AssigneeName != nil && *input.AssigneeName != "" {
		name := *input.AssigneeName
		g.Go(func() error {
			u, err := s.users.GetByUsername(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to look up assignee: %w", err)
			}
			if u == nil {
				return ErrAssigneeNotFound
			}
			assignee = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		Title:     input.Title,
		Status:    input.Status,
		Priority:  input.Priority,
		ProjectID: project.ID,
		CreatedBy: creator.ID,
	}
	if input.Description != nil {
		ticket.Description = sql.NullString{String: *input.Description, Valid: true}
	}
	if input.StoryPoints != nil {
		ticket.StoryPoints = sql.NullInt64{Int64: int64(*input.StoryPoints), Valid: true}
	}
	if assignee != nil {
		ticket.AssigneeID = sql.NullString{String: assignee.ID, Valid: true}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// Fill the joined names from the entities resolved above so the caller
	// gets a complete wire shape without a second read.
	ticket.ProjectName = project.Name
	ticket.CreatedByName = creator.Username
	if assignee != nil {
		ticket.AssigneeName = sql.NullString{String: assignee.Username, Valid: true}
	}

	return ticket, nil
}

// Get retrieves a ticket by ID.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// List retrieves tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repositories.TicketFilter) ([]*models.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// Update applies a partial update and returns the ticket with refreshed
// joined names.
func (s *TicketService) Update(ctx context.Context, ticketID string, input UpdateTicketInput) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = sql.NullString{String: *input.Description, Valid: true}
	}
	if input.Status != nil {
		if !models.ValidTicketStatus(*input.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTicketPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *input.Priority)
		}
		ticket.Priority = *input.Priority
	}
	if input.StoryPoints != nil {
		ticket.StoryPoints = sql.NullInt64{Int64: int64(*input.StoryPoints), Valid: true}
	}
	if input.AssigneeName != nil {
		if *input.AssigneeName == "" {
			ticket.AssigneeID = sql.NullString{}
			ticket.AssigneeName = sql.NullString{}
		} else {
			assignee, err := s.users.GetByUsername(ctx, *input.AssigneeName)
			if err != nil {
				return nil, fmt.Errorf("failed to look up assignee: %w", err)
			}
			if assignee == nil {
				return nil, ErrAssigneeNotFound
			}
			ticket.AssigneeID = sql.NullString{String: assignee.ID, Valid: true}
			ticket.AssigneeName = sql.NullString{String: assignee.Username, Valid: true}
		}
	}

	found, err := s.tickets.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !found {
		// Deleted between the read and the write.
		return nil, ErrTicketNotFound
	}

	return ticket, nil
}

// Delete removes a ticket; its comments cascade at the database level.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	found, err := s.tickets.Delete(ctx, ticketID)
	if err != nil {
		return err
	}
	if !found {
		return ErrTicketNotFound
	}
	return nil
}
