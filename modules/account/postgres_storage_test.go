package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/modules/account"
)

var userRowColumns = []string{
	"id", "name", "email", "password_hash", "is_verified",
	"verification_token", "verification_expires_at", "reset_token", "reset_expires_at",
	"last_login", "created_at", "updated_at", "version",
}

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newMockStorage(t *testing.T) (pgxmock.PgxPoolIface, *account.PostgresStorage) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock, account.NewPostgresStorage(mock)
}

func TestPostgresStorage_Find(t *testing.T) {
	t.Parallel()

	const id = "7f9c1f8e-3b1a-4c55-9d1e-2a4f6b8c0d12"
	expires := contractNow.Add(24 * time.Hour)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		find      func(s *account.PostgresStorage) (*account.User, error)
		wantErr   error
	}{
		{
			name: "by id with pending verification",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userRowColumns).AddRow(
					id, "Ann", "ann@x.com", "hash", false,
					strPtr("123456"), timePtr(expires), (*string)(nil), (*time.Time)(nil),
					contractNow, contractNow, contractNow, int64(2),
				)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).WithArgs(id).WillReturnRows(rows)
			},
			find: func(s *account.PostgresStorage) (*account.User, error) {
				return s.FindByID(context.Background(), id)
			},
		},
		{
			name: "by verification token",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userRowColumns).AddRow(
					id, "Ann", "ann@x.com", "hash", false,
					strPtr("123456"), timePtr(expires), (*string)(nil), (*time.Time)(nil),
					contractNow, contractNow, contractNow, int64(2),
				)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE verification_token = \$1 AND verification_expires_at >= \$2`).
					WithArgs("123456", contractNow).
					WillReturnRows(rows)
			},
			find: func(s *account.PostgresStorage) (*account.User, error) {
				return s.FindByVerificationToken(context.Background(), "123456", contractNow)
			},
		},
		{
			name: "no rows",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
					WithArgs("nobody@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			find: func(s *account.PostgresStorage) (*account.User, error) {
				return s.FindByEmail(context.Background(), "nobody@x.com")
			},
			wantErr: account.ErrUserNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE reset_token = \$1`).
					WithArgs("tok", contractNow).
					WillReturnError(errors.New("connection refused"))
			},
			find: func(s *account.PostgresStorage) (*account.User, error) {
				return s.FindByResetToken(context.Background(), "tok", contractNow)
			},
			wantErr: account.ErrStorageFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, store := newMockStorage(t)
			tt.setupMock(mock)

			got, err := tt.find(store)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, int64(2), got.Version)
				require.NotNil(t, got.Verification)
				assert.Equal(t, "123456", got.Verification.Token)
				assert.Equal(t, expires, got.Verification.ExpiresAt)
				assert.Nil(t, got.PasswordReset)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPostgresStorage_Insert(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		u := newContractUser("ann@x.com")
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(u.ID, "Ann", "ann@x.com", u.PasswordHash, false,
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				u.LastLogin, u.CreatedAt, u.UpdatedAt, int64(0)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.Insert(context.Background(), u))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(anyArgs(13)...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_unique"})

		err := store.Insert(context.Background(), newContractUser("ann@x.com"))
		assert.ErrorIs(t, err, account.ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStorage_Update(t *testing.T) {
	t.Parallel()

	t.Run("success increments version", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		u := newContractUser("ann@x.com")
		u.Version = 4
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs(u.ID, int64(4), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, store.Update(context.Background(), u))
		assert.Equal(t, int64(5), u.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		u := newContractUser("ann@x.com")
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs(anyArgs(12)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(u.ID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, store.Update(context.Background(), u), account.ErrStaleUser)
		assert.Equal(t, int64(0), u.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		u := newContractUser("ann@x.com")
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs(anyArgs(12)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(u.ID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, store.Update(context.Background(), u), account.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email collision", func(t *testing.T) {
		t.Parallel()

		mock, store := newMockStorage(t)
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs(anyArgs(12)...).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		assert.ErrorIs(t, store.Update(context.Background(), newContractUser("ann@x.com")), account.ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
