package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure. Postgres
// errors are matched on SQLSTATE and, when constraint is set, on the constraint
// name. SQLite only exposes the message, so it is matched textually.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.PostgresDetail(err); ok {
		return pg.Code == pgUniqueViolation && (constraint == "" || pg.Constraint == constraint)
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "SQLSTATE "+pgUniqueViolation) {
		return false
	}
	return constraint == "" || strings.Contains(msg, constraint)
}
