// comment_service.go implements the comment workflows. Comments are always
// addressed through their ticket, so every operation verifies that the
// comment belongs to the ticket named in the request path.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
)

// CommentService implements comment creation, lookup, listing, update, and delete.
type CommentService struct {
	comments *repositories.CommentRepository
	tickets  *repositories.TicketRepository
	users    *repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(comments *repositories.CommentRepository, tickets *repositories.TicketRepository, users *repositories.UserRepository) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, users: users}
}

// Create validates the input, resolves the ticket and the commenting user
// concurrently, and inserts the comment.
func (s *CommentService) Create(ctx context.Context, ticketID, content, createdBy string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	var author *models.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticket, err := s.tickets.GetByID(gctx, ticketID)
		if err != nil {
			return fmt.Errorf("failed to look up ticket: %w", err)
		}
		if ticket == nil {
			return ErrTicketNotFound
		}
		return nil
	})
	g.Go(func() error {
		u, err := s.users.GetByUsername(gctx, createdBy)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if u == nil {
			return ErrUserNotFound
		}
		author = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		TicketID: ticketID,
		UserID:   author.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Username = author.Username

	return comment, nil
}

// Get retrieves a comment scoped to its ticket.
func (s *CommentService) Get(ctx context.Context, ticketID, commentID string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.TicketID != ticketID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// ListByTicket retrieves all comments on a ticket in creation order.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID string) ([]*models.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return s.comments.ListByTicket(ctx, ticketID)
}

// Update replaces a comment's content.
func (s *CommentService) Update(ctx context.Context, ticketID, commentID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	comment, err := s.Get(ctx, ticketID, commentID)
	if err != nil {
		return nil, err
	}

	found, err := s.comments.Update(ctx, commentID, content)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCommentNotFound
	}

	comment.Content = content
	return comment, nil
}

// Delete removes a comment scoped to its ticket.
func (s *CommentService) Delete(ctx context.Context, ticketID, commentID string) error {
	if _, err := s.Get(ctx, ticketID, commentID); err != nil {
		return err
	}

	found, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return err
	}
	if !found {
		return ErrCommentNotFound
	}
	return nil
}
