package services

import (
	"errors"

	"github.com/lib/pq"
)

// Error kinds returned by the mutation services. Handlers match them with
// errors.Is and map them to HTTP statuses; anything else is a server failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Concurrent writers racing on username/email or on a like are
// resolved by the constraint, not the application-level pre-check.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
