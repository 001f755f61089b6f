// user_service.go implements the user workflows: account creation with bcrypt
// password hashing, lookups with optional ticket eager loads, listing with
// filters, partial update, and delete.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
)

// CreateUserInput carries the fields accepted on user creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Status   string
}

// UpdateUserInput carries a partial user update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Status   *string
}

// UserService implements account management on top of the user and ticket
// repositories. The ticket repository is only used for the optional eager
// loads on Get.
type UserService struct {
	users   *repositories.UserRepository
	tickets *repositories.TicketRepository
}

// NewUserService creates a new UserService
func NewUserService(users *repositories.UserRepository, tickets *repositories.TicketRepository) *UserService {
	return &UserService{users: users, tickets: tickets}
}

// Create validates the input, hashes the password, and inserts the user. A
// duplicate username or email surfaces as ErrConflict; the database unique
// constraints are the authoritative check, there is no read-before-write.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email must not be empty", ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	if input.Status != "" && !models.ValidUserStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Status:       input.Status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID, optionally eager-loading the tickets they
// created and the tickets assigned to them.
func (s *UserService) Get(ctx context.Context, userID string, includeCreated, includeAssigned bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if includeCreated {
		created, err := s.tickets.ListByCreator(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load created tickets: %w", err)
		}
		user.CreatedTickets = created
	}
	if includeAssigned {
		assigned, err := s.tickets.ListByAssignee(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load assigned tickets: %w", err)
		}
		user.AssignedTickets = assigned
	}

	return user, nil
}

// List retrieves users matching the filter.
func (s *UserService) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, error) {
	if filter.Status != "" && !models.ValidUserStatus(filter.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, filter.Status)
	}
	return s.users.List(ctx, filter)
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, userID string, input UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Username != nil {
		if *input.Username == "" {
			return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", ErrValidation)
		}
		user.Email = *input.Email
	}
	if input.Status != nil {
		if !models.ValidUserStatus(*input.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
		}
		user.Status = *input.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	found, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}
