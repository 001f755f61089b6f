// users.go implements handlers for user account CRUD operations including
// listing with filters and optional ticket eager loads on get.
package users

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/api/respond"
	"github.com/ticket-tracker/ticket-tracker/internal/api/tickets"
	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
	"github.com/ticket-tracker/ticket-tracker/internal/services"
)

// UserHandlers handles user management endpoints
type UserHandlers struct {
	users *services.UserService
}

// NewUserHandlers creates a new UserHandlers instance
func NewUserHandlers(users *services.UserService) *UserHandlers {
	return &UserHandlers{users: users}
}

// UserResponse is the wire shape of a user. The password hash never leaves the
// database layer; the API key appears only in the create response. The ticket
// lists are present only when the caller asked for them.
type UserResponse struct {
	UserID          string                   `json:"user_id"`
	Username        string                   `json:"username"`
	Email           string                   `json:"email"`
	Status          string                   `json:"status"`
	APIKey          string                   `json:"api_key,omitempty"`
	CreatedAt       string                   `json:"created_at"`
	TicketsCreated  []tickets.TicketResponse `json:"tickets_created,omitempty"`
	TicketsAssigned []tickets.TicketResponse `json:"tickets_assigned,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.CreatedTickets != nil {
		resp.TicketsCreated = tickets.ToTicketResponses(u.CreatedTickets)
	}
	if u.AssignedTickets != nil {
		resp.TicketsAssigned = tickets.ToTicketResponses(u.AssignedTickets)
	}
	return resp
}

func toUserResponses(us []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUserResponse(u))
	}
	return out
}

// CreateUserRequest represents the request to create a new user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Status   string `json:"status"`
}

// @Summary      Create user
// @Description  Create a new user account. The response includes the user's API key; it is never returned again.
// @Tags         Users
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  CreateUserRequest  true  "User creation request"
// @Success      201  {object}  respond.Envelope  "data: UserResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      409  {object}  respond.Envelope  "Username or email already taken"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/users [post]
// CreateUserHandler creates a new user
// POST /api/v1/users
func (h *UserHandlers) CreateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		user, err := h.users.Create(c.Request.Context(), services.CreateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Status:   req.Status,
		})
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		// The one place the API key is exposed.
		resp := toUserResponse(user)
		resp.APIKey = user.APIKey
		respond.Success(c, http.StatusCreated, "User created", resp)
	}
}

// @Summary      List users
// @Description  Get users filtered by username substring, exact email, and status, with offset pagination.
// @Tags         Users
// @Security     ApiKeyAuth
// @Produce      json
// @Param        username  query  string  false  "Username substring (case-insensitive)"
// @Param        email     query  string  false  "Exact email"
// @Param        status    query  string  false  "active or inactive"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        size      query  int     false  "Items per page, max 100 (default 10)"
// @Success      200  {object}  respond.Envelope  "data: users + pagination"
// @Failure      400  {object}  respond.Envelope  "Invalid status filter"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/users [get]
// ListUsersHandler lists users with filters and pagination
// GET /api/v1/users?username=&email=&status=&page=1&size=10
func (h *UserHandlers) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

		if page < 1 {
			page = 1
		}
		if size < 1 || size > 100 {
			size = 10
		}

		filter := repositories.UserFilter{
			Username: c.Query("username"),
			Email:    c.Query("email"),
			Status:   c.Query("status"),
			Limit:    size,
			Offset:   (page - 1) * size,
		}

		users, err := h.users.List(c.Request.Context(), filter)
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "Users retrieved", gin.H{
			"users": toUserResponses(users),
			"pagination": gin.H{
				"page": page,
				"size": size,
			},
		})
	}
}

// @Summary      Get user
// @Description  Get a user by ID, optionally including the tickets they created and the tickets assigned to them.
// @Tags         Users
// @Security     ApiKeyAuth
// @Produce      json
// @Param        user_id                  path   string  true   "User ID"
// @Param        include_created_tickets  query  bool    false  "Include tickets created by the user"
// @Param        include_assigned_tickets query  bool    false  "Include tickets assigned to the user"
// @Success      200  {object}  respond.Envelope  "data: UserResponse"
// @Failure      404  {object}  respond.Envelope  "User not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/users/{user_id} [get]
// GetUserHandler retrieves a specific user by ID
// GET /api/v1/users/:user_id?include_created_tickets=true&include_assigned_tickets=true
func (h *UserHandlers) GetUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		includeCreated, _ := strconv.ParseBool(c.DefaultQuery("include_created_tickets", "false"))
		includeAssigned, _ := strconv.ParseBool(c.DefaultQuery("include_assigned_tickets", "false"))

		user, err := h.users.Get(c.Request.Context(), c.Param("user_id"), includeCreated, includeAssigned)
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "User retrieved", toUserResponse(user))
	}
}

// UpdateUserRequest represents a partial user update. Absent fields are left
// unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Status   *string `json:"status"`
}

// @Summary      Update user
// @Description  Apply a partial update to a user. Only the provided fields change.
// @Tags         Users
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        user_id  path  string             true  "User ID"
// @Param        body     body  UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  respond.Envelope  "data: UserResponse"
// @Failure      400  {object}  respond.Envelope  "Invalid request"
// @Failure      404  {object}  respond.Envelope  "User not found"
// @Failure      409  {object}  respond.Envelope  "Username or email already taken"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/users/{user_id} [put]
// UpdateUserHandler applies a partial update to a user
// PUT /api/v1/users/:user_id
func (h *UserHandlers) UpdateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Failure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		user, err := h.users.Update(c.Request.Context(), c.Param("user_id"), services.UpdateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Status:   req.Status,
		})
		if err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "User updated", toUserResponse(user))
	}
}

// @Summary      Delete user
// @Description  Delete a user account.
// @Tags         Users
// @Security     ApiKeyAuth
// @Produce      json
// @Param        user_id  path  string  true  "User ID"
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope  "User not found"
// @Failure      500  {object}  respond.Envelope  "Internal server error"
// @Router       /api/v1/users/{user_id} [delete]
// DeleteUserHandler deletes a user
// DELETE /api/v1/users/:user_id
func (h *UserHandlers) DeleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.users.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
			respond.ServiceError(c, err)
			return
		}

		respond.Success(c, http.StatusOK, "User deleted", nil)
	}
}
