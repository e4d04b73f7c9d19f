package account

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/authservice/pkg/pg"
)

// Migrations holds the goose migrations for PostgresStorage.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// pgxQuerier is the subset of *pgxpool.Pool used by PostgresStorage.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage stores users in the users table created by Migrations.
type PostgresStorage struct {
	db pgxQuerier
}

// NewPostgresStorage returns a PostgresStorage over db, usually a *pgxpool.Pool.
func NewPostgresStorage(db pgxQuerier) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const userColumns = `id, name, email, password_hash, is_verified,
	verification_token, verification_expires_at, reset_token, reset_expires_at,
	last_login, created_at, updated_at, version`

const (
	queryUserByID                = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryUserByEmail             = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	queryUserByVerificationToken = `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1 AND verification_expires_at >= $2`
	queryUserByResetToken        = `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_expires_at >= $2`

	queryInsertUser = `INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	queryUpdateUser = `UPDATE users SET
	name = $3, email = $4, password_hash = $5, is_verified = $6,
	verification_token = $7, verification_expires_at = $8,
	reset_token = $9, reset_expires_at = $10,
	last_login = $11, updated_at = $12, version = version + 1
	WHERE id = $1 AND version = $2`

	queryUserExists = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
)

func (s *PostgresStorage) FindByID(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, queryUserByID, id)
}

func (s *PostgresStorage) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.queryUser(ctx, queryUserByEmail, email)
}

func (s *PostgresStorage) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return s.queryUser(ctx, queryUserByVerificationToken, token, now)
}

func (s *PostgresStorage) FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return s.queryUser(ctx, queryUserByResetToken, token, now)
}

func (s *PostgresStorage) queryUser(ctx context.Context, query string, args ...any) (*User, error) {
	var (
		u               User
		verifyToken     *string
		verifyExpiresAt *time.Time
		resetToken      *string
		resetExpiresAt  *time.Time
	)
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified,
		&verifyToken, &verifyExpiresAt, &resetToken, &resetExpiresAt,
		&u.LastLogin, &u.CreatedAt, &u.UpdatedAt, &u.Version,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}

	u.Verification = pendingFromColumns(verifyToken, verifyExpiresAt)
	u.PasswordReset = pendingFromColumns(resetToken, resetExpiresAt)
	return &u, nil
}

func (s *PostgresStorage) Insert(ctx context.Context, u *User) error {
	verifyToken, verifyExpiresAt := pendingToColumns(u.Verification)
	resetToken, resetExpiresAt := pendingToColumns(u.PasswordReset)

	_, err := s.db.Exec(ctx, queryInsertUser,
		u.ID, u.Name, u.Email, u.PasswordHash, u.IsVerified,
		verifyToken, verifyExpiresAt, resetToken, resetExpiresAt,
		u.LastLogin, u.CreatedAt, u.UpdatedAt, u.Version,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (s *PostgresStorage) Update(ctx context.Context, u *User) error {
	verifyToken, verifyExpiresAt := pendingToColumns(u.Verification)
	resetToken, resetExpiresAt := pendingToColumns(u.PasswordReset)

	tag, err := s.db.Exec(ctx, queryUpdateUser,
		u.ID, u.Version,
		u.Name, u.Email, u.PasswordHash, u.IsVerified,
		verifyToken, verifyExpiresAt, resetToken, resetExpiresAt,
		u.LastLogin, u.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStorageFailed, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx, queryUserExists, u.ID).Scan(&exists); err != nil {
			return errors.Join(ErrStorageFailed, err)
		}
		if !exists {
			return ErrUserNotFound
		}
		return ErrStaleUser
	}

	u.Version++
	return nil
}

func pendingToColumns(p *PendingToken) (*string, *time.Time) {
	if p == nil {
		return nil, nil
	}
	token, expiresAt := p.Token, p.ExpiresAt
	return &token, &expiresAt
}

func pendingFromColumns(token *string, expiresAt *time.Time) *PendingToken {
	if token == nil || expiresAt == nil {
		return nil
	}
	return &PendingToken{Token: *token, ExpiresAt: *expiresAt}
}
