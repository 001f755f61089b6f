// project_repository.go implements ProjectRepository, providing database queries for
// the projects that group tickets.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project. A duplicate name is returned as ErrDuplicate.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = uuid.New().String()
	project.CreatedAt = time.Now()

	query := `
		INSERT INTO projects (project_id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, project.ID, project.Name, project.CreatedAt)
	if err != nil {
		return mapConstraintError(err)
	}

	return nil
}

// GetByName retrieves a project by exact name. Returns (nil, nil) when no
// project exists; absence is not an error, callers decide what it means.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	query := `
		SELECT project_id, name, created_at
		FROM projects
		WHERE name = $1
	`

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&project.ID,
		&project.Name,
		&project.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return project, nil
}

// EnsureDefault creates the bootstrap project with the given name if it does
// not already exist, and returns it either way.
func (r *ProjectRepository) EnsureDefault(ctx context.Context, name string) (*models.Project, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	project := &models.Project{Name: name}
	if err := r.Create(ctx, project); err != nil {
		if err == ErrDuplicate {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}

	return project, nil
}
