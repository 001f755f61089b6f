// Package repositories implements the data access layer (repository pattern) for the tracker.
// Each repository type encapsulates all database queries for a domain entity.
// Handlers never issue SQL directly — all database access goes through this layer, which makes query logic testable in isolation and prevents accidental cross-domain data access.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
)

// UserFilter narrows a List call. Zero values mean "no filter".
type UserFilter struct {
	// Username matches as a case-insensitive substring.
	Username string
	// Email matches exactly.
	Email string
	// Status matches exactly ("active" or "inactive").
	Status string
	Limit  int
	Offset int
}

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. The caller supplies Username, Email, and
// PasswordHash; ID, APIKey, and timestamps are assigned here. A unique
// constraint violation on username or email is returned as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	user.APIKey = uuid.New().String()
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (user_id, username, email, password_hash, status, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Status,
		user.APIKey,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapConstraintError(err)
	}

	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no user exists.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, status, api_key, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// GetByUsername retrieves a user by exact username. Returns (nil, nil) when
// no user exists; absence is not an error, callers decide what it means.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, status, api_key, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Update writes the mutable fields (username, email, status) and refreshes
// updated_at. A unique constraint violation is returned as ErrDuplicate.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET username = $2, email = $3, status = $4, updated_at = $5
		WHERE user_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Status,
		user.UpdatedAt,
	)
	if err != nil {
		return mapConstraintError(err)
	}

	return nil
}

// Delete removes a user. The returned bool reports whether a row was deleted.
func (r *UserRepository) Delete(ctx context.Context, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List retrieves users matching the filter, ordered by creation time.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]*models.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, status, api_key, created_at, updated_at
		FROM users
	`

	conditions := []string{}
	args := []interface{}{}

	if filter.Username != "" {
		args = append(args, "%"+filter.Username+"%")
		conditions = append(conditions, fmt.Sprintf("username ILIKE $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY created_at ASC, user_id ASC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Status,
			&user.APIKey,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// EnsureDefault creates the bootstrap user with the given username if it does
// not already exist, and returns it either way. The generated password is
// random (the API key hashed with bcrypt); the account is meant for seeding,
// not interactive login.
func (r *UserRepository) EnsureDefault(ctx context.Context, username string) (*models.User, error) {
	existing, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	key := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@tracker.local",
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}
	if err := r.Create(ctx, user); err != nil {
		// Another instance may have created it between the lookup and insert.
		if err == ErrDuplicate {
			return r.GetByUsername(ctx, username)
		}
		return nil, err
	}

	return user, nil
}

// scanOne scans a single user row, translating sql.ErrNoRows into (nil, nil).
func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.APIKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}
