package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when an INSERT or UPDATE violates a unique
// constraint (username, email, or project name). The database constraint is
// the authoritative signal; callers translate this into a conflict response.
var ErrDuplicate = errors.New("duplicate value for unique column")

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// mapConstraintError converts a PostgreSQL unique-violation error into
// ErrDuplicate and passes every other error through unchanged.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
