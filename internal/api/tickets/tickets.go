// tickets.go implements handlers for ticket CRUD operations including listing
// with project/creator/title filters and offset pagination.
package tickets

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/api/respond"
	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
	"github.com/ticket-tracker/ticket-tracker/internal/services"
	"github.com/ticket-tracker/ticket-tracker/internal/telemetry"
)

// TicketHandlers handles ticket management endpoints
type TicketHandlers struct {
	tickets *services.TicketService
}

// NewTicketHandlers creates a new TicketHandlers instance
func NewTicketHandlers(tickets *services.TicketService) *TicketHandlers {
	return &TicketHandlers{tickets: tickets}
}

// TicketResponse is the wire shape of a ticket. Creator, assignee, and project
// are echoed as names, not IDs.
type TicketResponse struct {
	TicketID     string  `json:"ticket_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	StoryPoints  *int64  `json:"story_points"`
	ProjectName  string  `json:"project_name"`
	CreatedBy    string  `json:"created_by"`
	AssigneeName *string `json:"assignee_name"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ToTicketResponse converts a ticket model to its wire shape.
func ToTicketResponse(t *models.Ticket) TicketResponse {
	resp := TicketResponse{
		TicketID:    t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectName: t.ProjectName,
		CreatedBy:   t.CreatedByName,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.Description.Valid {
		resp.Description = &t.Description.String
	}
	if t.StoryPoints.Valid {
		resp.StoryPoints = &t.StoryPoints.Int64
	}
	if t.AssigneeName.Valid {
		resp.AssigneeName = &t.AssigneeName.String
	}
	return resp
}

// ToTicketResponses converts a slice of ticket models to wire shapes. A nil
// slice becomes an empty array so list responses never serialize as null.
func ToTicketResponses(ts []*models.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTicketResponse(t))
	}
	return out
}

// CreateTicketRequest represents the request to create a new ticket
type CreateTicketRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	StoryPoints  *int    `json:"story_points"`
	ProjectName  string  `json:"project_name" binding:"required"`
	CreatedBy    string  `json:"created_by" binding:"required"`
	AssigneeName *string `json:"assignee_name"`
}

// @Summary      Create ticket
// @Description  Create a new ticket. Project, creator, and optional assignee are referenced by name and must exist.
// @Tags         Tickets
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  CreateTicketRequest  true  "Ticket creation request"
// @Success      201  {object}  respond.Envelope  "data: TicketResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      404  {object}  respond.Envelope  "Project, creator, or assignee not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets [post]
// CreateTicketHandler creates a new ticket
// POST /api/v1/tickets
func (h *TicketHandlers) CreateTicketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		ticket, err := h.tickets.Create(c.Request.Context(), services.CreateTicketInput{
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			Priority:     req.Priority,
			StoryPoints:  req.StoryPoints,
			ProjectName:  req.ProjectName,
			CreatedBy:    req.CreatedBy,
			AssigneeName: req.AssigneeName,
		})
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		telemetry.TicketsCreatedTotal.WithLabelValues(ticket.ProjectName, ticket.Priority).Inc()
		respond.Success(c, http.StatusCreated, "Ticket created", ToTicketResponse(ticket))
	}
}

// @Summary      List tickets
// @Description  Get tickets filtered by project name, creator username, and exact title, with offset pagination.
// @Tags         Tickets
// @Security     ApiKeyAuth
// @Produce      json
// @Param        project_name  query  string  false  "Project name substring (case-insensitive)"
// @Param        user_name     query  string  false  "Creator username substring (case-insensitive)"
// @Param        ticket_title  query  string  false  "Exact ticket title"
// @Param        page          query  int     false  "Page number (default 1)"
// @Param        size          query  int     false  "Items per page, max 100 (default 10)"
// @Success      200  {object}  respond.Envelope  "data: tickets + pagination"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets [get]
// ListTicketsHandler lists tickets with filters and pagination
// GET /api/v1/tickets?project_name=&user_name=&ticket_title=&page=1&size=10
func (h *TicketHandlers) ListTicketsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

		if page < 1 {
			page = 1
		}
		if size < 1 || size > 100 {
			size = 10
		}

		filter := repositories.TicketFilter{
			ProjectName:     c.Query("project_name"),
			Title:           c.Query("ticket_title"),
			CreatorUsername: c.Query("user_name"),
			Limit:           size,
			Offset:          (page - 1) * size,
		}

		tickets, err := h.tickets.List(c.Request.Context(), filter)
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Tickets retrieved", gin.H{
			"tickets": ToTicketResponses(tickets),
			"pagination": gin.H{
				"page": page,
				"size": size,
			},
		})
	}
}

// @Summary      Get ticket
// @Description  Get a ticket by ID.
// @Tags         Tickets
// @Security     ApiKeyAuth
// @Produce      json
// @Param        ticket_id  path  string  true  "Ticket ID"
// @Success      200  {object}  respond.Envelope  "data: TicketResponse"
// @Failure      404  {object}  respond.Envelope  "Ticket not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id} [get]
// GetTicketHandler retrieves a specific ticket by ID
// GET /api/v1/tickets/:ticket_id
func (h *TicketHandlers) GetTicketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := h.tickets.Get(c.Request.Context(), c.Param("ticket_id"))
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Ticket retrieved", ToTicketResponse(ticket))
	}
}

// UpdateTicketRequest represents a partial ticket update. Absent fields are
// left unchanged; an empty assignee_name clears the assignee.
type UpdateTicketRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	StoryPoints  *int    `json:"story_points"`
	AssigneeName *string `json:"assignee_name"`
}

// @Summary      Update ticket
// @Description  Apply a partial update to a ticket. Only the provided fields change.
// @Tags         Tickets
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        ticket_id  path  string               true  "Ticket ID"
// @Param        body       body  UpdateTicketRequest  true  "Fields to update"
// @Success      200  {object}  respond.Envelope  "data: TicketResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      404  {object}  respond.Envelope  "Ticket or assignee not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id} [patch]
// UpdateTicketHandler applies a partial update to a ticket
// PATCH /api/v1/tickets/:ticket_id
func (h *TicketHandlers) UpdateTicketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		ticket, err := h.tickets.Update(c.Request.Context(), c.Param("ticket_id"), services.UpdateTicketInput{
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			Priority:     req.Priority,
			StoryPoints:  req.StoryPoints,
			AssigneeName: req.AssigneeName,
		})
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Ticket updated", ToTicketResponse(ticket))
	}
}

// @Summary      Delete ticket
// @Description  Delete a ticket. Its comments are removed by the database cascade.
// @Tags         Tickets
// @Security     ApiKeyAuth
// @Produce      json
// @Param        ticket_id  path  string  true  "Ticket ID"
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope  "Ticket not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/tickets/{ticket_id} [delete]
// DeleteTicketHandler deletes a ticket
// DELETE /api/v1/tickets/:ticket_id
func (h *TicketHandlers) DeleteTicketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.tickets.Delete(c.Request.Context(), c.Param("ticket_id")); err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Ticket deleted", nil)
	}
}
