package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "unique_violation"

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
// With a non-empty constraint only violations of that constraint match.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code.Name() != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
