package account

import (
	"context"
	"time"
)

// Storage persists users.
//
// Lookups return ErrUserNotFound when nothing matches. Token lookups match
// only tokens whose expiry is at or after now. Insert returns ErrEmailTaken
// when the email is already registered. Update writes the whole record only
// if the stored version equals u.Version, increments u.Version on success
// and returns ErrStaleUser otherwise.
type Storage interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}
