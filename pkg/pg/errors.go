package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConfig         = errors.New("pg: invalid connection config")
	ErrConnectFailed         = errors.New("pg: could not open a healthy pool")
	ErrHealthcheckFailed     = errors.New("pg: ping failed")
	ErrMigrationFailed       = errors.New("pg: migration failed")
	ErrMigrationsNotProvided = errors.New("pg: no migrations source")
)

// uniqueViolation is SQLSTATE unique_violation.
const uniqueViolation = "23505"

// IsNotFoundError reports whether err is pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
