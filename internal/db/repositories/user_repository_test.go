package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/ticket-tracker/ticket-tracker/internal/db/models"
)

var errDB = errors.New("db error")

var userCols = []string{"user_id", "username", "email", "password_hash", "status", "api_key", "created_at", "updated_at"}

func sampleUserRow() *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow("user-1", "alice", "alice@example.com", "$2a$10$hash", "active", "key-1", time.Now(), time.Now())
}

func emptyUserRow() *sqlmock.Rows {
	return sqlmock.NewRows(userCols)
}

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestUserGetByID_Found(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(sampleUserRow())

	user, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "user-1" {
		t.Errorf("ID = %s, want user-1", user.ID)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE user_id").
		WithArgs("missing").
		WillReturnRows(emptyUserRow())

	user, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user for not found, got %v", user)
	}
}

func TestUserGetByID_DBError(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE user_id").
		WithArgs("user-1").
		WillReturnError(errDB)

	_, err := repo.GetByID(context.Background(), "user-1")
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetByUsername
// ---------------------------------------------------------------------------

func TestUserGetByUsername_Found(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("alice").
		WillReturnRows(sampleUserRow())

	user, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %s, want alice", user.Username)
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("nobody").
		WillReturnRows(emptyUserRow())

	user, err := repo.GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %v", user)
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserCreate_Success(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "$2a$10$hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected ID to be set")
	}
	if user.APIKey == "" {
		t.Error("expected APIKey to be set")
	}
	if user.Status != models.UserStatusActive {
		t.Errorf("Status = %s, want active", user.Status)
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	user := &models.User{Username: "alice", Email: "alice2@example.com", PasswordHash: "h"}
	err := repo.Create(context.Background(), user)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserCreate_DBError(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errDB)

	user := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h"}
	if err := repo.Create(context.Background(), user); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserUpdate_Success(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Status: "inactive"}
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserUpdate_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("UPDATE users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	user := &models.User{ID: "user-1", Username: "alice", Email: "taken@example.com", Status: "active"}
	err := repo.Update(context.Background(), user)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestUserDelete_Success(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Delete(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true")
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for missing user")
	}
}

func TestUserDelete_DBError(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("DELETE FROM users").
		WillReturnError(errDB)

	if _, err := repo.Delete(context.Background(), "user-1"); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestUserList_NoFilter(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*ORDER BY created_at").
		WithArgs(10, 0).
		WillReturnRows(sampleUserRow())

	users, err := repo.List(context.Background(), UserFilter{Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(users))
	}
}

func TestUserList_UsernameFilter(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*WHERE username ILIKE").
		WithArgs("%ali%", 10, 0).
		WillReturnRows(sampleUserRow())

	users, err := repo.List(context.Background(), UserFilter{Username: "ali", Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(users))
	}
}

func TestUserList_AllFilters(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*WHERE username ILIKE.*AND email =.*AND status =").
		WithArgs("%ali%", "alice@example.com", "active", 10, 0).
		WillReturnRows(sampleUserRow())

	users, err := repo.List(context.Background(), UserFilter{
		Username: "ali",
		Email:    "alice@example.com",
		Status:   "active",
		Limit:    10,
		Offset:   0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(users))
	}
}

func TestUserList_Empty(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*ORDER BY created_at").
		WillReturnRows(emptyUserRow())

	users, err := repo.List(context.Background(), UserFilter{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("len(users) = %d, want 0", len(users))
	}
}

// ---------------------------------------------------------------------------
// EnsureDefault
// ---------------------------------------------------------------------------

func TestUserEnsureDefault_AlreadyExists(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("user-admin", "admin", "admin@tracker.local", "$2a$10$hash", "active", "key-a", time.Now(), time.Now()))

	user, err := repo.EnsureDefault(context.Background(), "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.Username != "admin" {
		t.Fatalf("expected admin user, got %v", user)
	}
}

func TestUserEnsureDefault_Creates(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("admin").
		WillReturnRows(emptyUserRow())
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user, err := repo.EnsureDefault(context.Background(), "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Email != "admin@tracker.local" {
		t.Errorf("Email = %s, want admin@tracker.local", user.Email)
	}
}

func TestUserEnsureDefault_LostRace(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("admin").
		WillReturnRows(emptyUserRow())
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectQuery("SELECT.*FROM users.*WHERE username").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("user-admin", "admin", "admin@tracker.local", "$2a$10$hash", "active", "key-a", time.Now(), time.Now()))

	user, err := repo.EnsureDefault(context.Background(), "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != "user-admin" {
		t.Fatalf("expected existing admin user, got %v", user)
	}
}
