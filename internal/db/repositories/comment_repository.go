// comment_repository.go implements CommentRepository for the notes attached to
// tickets. Reads are joined with users so each comment carries the commenting
// username.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
)

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment. ID and created_at are assigned here.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO comments (comment_id, content, created_at, ticket_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.Content,
		comment.CreatedAt,
		comment.TicketID,
		comment.UserID,
	)

	return err
}

// GetByID retrieves a comment by ID with the commenting username joined in.
// Returns (nil, nil) when no comment exists.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	query := `
		SELECT c.comment_id, c.content, c.created_at, c.ticket_id, c.user_id, u.username
		FROM comments c
		JOIN users u ON c.user_id = u.user_id
		WHERE c.comment_id = $1
	`

	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.TicketID,
		&comment.UserID,
		&comment.Username,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByTicket retrieves all comments on a ticket in creation order.
func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID string) ([]*models.Comment, error) {
	query := `
		SELECT c.comment_id, c.content, c.created_at, c.ticket_id, c.user_id, u.username
		FROM comments c
		JOIN users u ON c.user_id = u.user_id
		WHERE c.ticket_id = $1
		ORDER BY c.created_at ASC, c.comment_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.TicketID,
			&comment.UserID,
			&comment.Username,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// Update replaces the content of a comment. The returned bool reports whether
// the comment existed; the row itself is the target of the UPDATE, so a
// missing comment is detected via RowsAffected rather than a prior read.
func (r *CommentRepository) Update(ctx context.Context, commentID, content string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $2 WHERE comment_id = $1`,
		commentID, content,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a comment. The returned bool reports whether a row was deleted.
func (r *CommentRepository) Delete(ctx context.Context, commentID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
