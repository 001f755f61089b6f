// comments.go implements handlers for comment CRUD operations. Comments are
// always addressed through their ticket; a comment ID from another ticket is
// treated as not found.
package comments

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/api/respond"
	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/services"
	"github.com/ticket-tracker/ticket-tracker/internal/telemetry"
)

// CommentHandlers handles comment endpoints nested under a ticket
type CommentHandlers struct {
	comments *services.CommentService
}

// NewCommentHandlers creates a new CommentHandlers instance
func NewCommentHandlers(comments *services.CommentService) *CommentHandlers {
	return &CommentHandlers{comments: comments}
}

// CommentResponse is the wire shape of a comment. The author is echoed as a
// username, not an ID.
type CommentResponse struct {
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func toCommentResponse(cm *models.Comment) CommentResponse {
	return CommentResponse{
		CommentID: cm.ID,
		Content:   cm.Content,
		CreatedBy: cm.Username,
		CreatedAt: cm.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toCommentResponses(cms []*models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(cms))
	for _, cm := range cms {
		out = append(out, toCommentResponse(cm))
	}
	return out
}

// CreateCommentRequest represents the request to add a comment to a ticket
type CreateCommentRequest struct {
	Content   string `json:"content" binding:"required"`
	CreatedBy string `json:"created_by" binding:"required"`
}

// @Summary      Create comment
// @Description  Add a comment to a ticket. The author is referenced by username and must exist.
// @Tags         Comments
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        ticket_id  path  string                true  "Ticket ID"
// @Param        body       body  CreateCommentRequest  true  "Comment creation request"
// @Success      201  {object}  respond.Envelope  "data: CommentResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      404  {object}  respond.Envelope  "Ticket or author not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id}/comments [post]
// CreateCommentHandler adds a comment to a ticket
// POST /api/v1/tickets/:ticket_id/comments
func (h *CommentHandlers) CreateCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		comment, err := h.comments.Create(c.Request.Context(), c.Param("ticket_id"), req.Content, req.CreatedBy)
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		telemetry.CommentsCreatedTotal.Inc()
		respond.Success(c, http.StatusCreated, "Comment created", toCommentResponse(comment))
	}
}

// @Summary      List comments
// @Description  Get all comments on a ticket in creation order.
// @Tags         Comments
// @Security     ApiKeyAuth
// @Produce      json
// @Param        ticket_id  path  string  true  "Ticket ID"
// @Success      200  {object}  respond.Envelope  "data: []CommentResponse"
// @Failure      404  {object}  respond.Envelope  "Ticket not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id}/comments [get]
// ListCommentsHandler lists the comments on a ticket
// GET /api/v1/tickets/:ticket_id/comments
func (h *CommentHandlers) ListCommentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := h.comments.ListByTicket(c.Request.Context(), c.Param("ticket_id"))
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Comments retrieved", toCommentResponses(comments))
	}
}

// @Summary      Get comment
// @Description  Get a single comment on a ticket.
// @Tags         Comments
// @Security     ApiKeyAuth
// @Produce      json
// @Param        ticket_id   path  string  true  "Ticket ID"
// @Param        comment_id  path  string  true  "Comment ID"
// @Success      200  {object}  respond.Envelope  "data: CommentResponse"
// @Failure      404  {object}  respond.Envelope  "Comment not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id}/comments/{comment_id} [get]
// GetCommentHandler retrieves a specific comment on a ticket
// GET /api/v1/tickets/:ticket_id/comments/:comment_id
func (h *CommentHandlers) GetCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		comment, err := h.comments.Get(c.Request.Context(), c.Param("ticket_id"), c.Param("comment_id"))
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Comment retrieved", toCommentResponse(comment))
	}
}

// UpdateCommentRequest represents the request to replace a comment's content
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary      Update comment
// @Description  Replace a comment's content.
// @Tags         Comments
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        ticket_id   path  string                true  "Ticket ID"
// @Param        comment_id  path  string                true  "Comment ID"
// @Param        body        body  UpdateCommentRequest  true  "New content"
// @Success      200  {object}  respond.Envelope  "data: CommentResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      404  {object}  respond.Envelope  "Comment not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id}/comments/{comment_id} [put]
// UpdateCommentHandler replaces a comment's content
// PUT /api/v1/tickets/:ticket_id/comments/:comment_id
func (h *CommentHandlers) UpdateCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		comment, err := h.comments.Update(c.Request.Context(), c.Param("ticket_id"), c.Param("comment_id"), req.Content)
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Comment updated", toCommentResponse(comment))
	}
}

// @Summary      Delete comment
// @Description  Delete a comment from a ticket.
// @Tags         Comments
// @Security     ApiKeyAuth
// @Produce      json
// @Param        ticket_id   path  string  true  "Ticket ID"
// @Param        comment_id  path  string  true  "Comment ID"
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope  "Comment not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id}/comments/{comment_id} [delete]
// DeleteCommentHandler deletes a comment
// DELETE /api/v1/tickets/:ticket_id/comments/:comment_id
func (h *CommentHandlers) DeleteCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.comments.Delete(c.Request.Context(), c.Param("ticket_id"), c.Param("comment_id")); err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Comment deleted", nil)
	}
}
