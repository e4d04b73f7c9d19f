package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/password"
	"github.com/dmitrymomot/authservice/pkg/token"
)

// maxSaveAttempts bounds retries of a versioned update after ErrStaleUser.
const maxSaveAttempts = 3

// SessionIssuer issues signed session tokens. *jwt.Service implements it.
type SessionIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// Service implements the account lifecycle.
type Service struct {
	store    Storage
	hasher   password.Hasher
	sessions SessionIssuer
	notifier Notifier

	verificationTTL time.Duration
	resetTTL        time.Duration
	resetURL        func(token string) string
	now             func() time.Time
	logger          *slog.Logger
	metrics         *Metrics
	nonDisclosing   bool

	dummyHash func() string
}

// NewService wires a Service.
func NewService(store Storage, hasher password.Hasher, sessions SessionIssuer, notifier Notifier, opts ...ServiceOption) *Service {
	s := &Service{
		store:           store,
		hasher:          hasher,
		sessions:        sessions,
		notifier:        notifier,
		verificationTTL: DefaultVerificationTTL,
		resetTTL:        DefaultResetTTL,
		resetURL:        resetURLFor(DefaultClientURL),
		now:             time.Now,
		logger:          logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("account"))

	// Compared against when the email is unknown so a miss costs a bcrypt round too.
	s.dummyHash = sync.OnceValue(func() string {
		h, err := s.hasher.Hash("account-timing-equalizer")
		if err != nil {
			s.logger.Error("failed to prepare dummy hash", logger.Error(err))
		}
		return h
	})

	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Signup registers an unverified user, logs them in and sends the welcome
// and verification emails.
func (s *Service) Signup(ctx context.Context, in SignupInput) (_ *Session, err error) {
	started := time.Now()
	defer func() { s.metrics.observe("signup", started, err) }()

	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errors.Join(ErrHashFailed, err)
	}
	code, err := token.VerificationCode()
	if err != nil {
		return nil, errors.Join(ErrTokenFailed, err)
	}

	now := s.clock()
	u := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Verification: &PendingToken{Token: code, ExpiresAt: now.Add(s.verificationTTL)},
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}

	session, err := s.issueSession(u)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed up", logger.UserID(u.ID), logger.Event("signup"))

	g := new(errgroup.Group)
	g.Go(func() error {
		s.notify(ctx, u.ID, "welcome", s.notifier.SendWelcome(ctx, u.Email, u.Name))
		return nil
	})
	g.Go(func() error {
		s.notify(ctx, u.ID, "verification", s.notifier.SendVerification(ctx, u.Email, code))
		return nil
	})
	_ = g.Wait()

	return session, nil
}

// VerifyEmail consumes a verification code and marks its owner verified.
func (s *Service) VerifyEmail(ctx context.Context, in VerifyEmailInput) (_ *Profile, err error) {
	started := time.Now()
	defer func() { s.metrics.observe("verify_email", started, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	find := func(ctx context.Context) (*User, error) {
		return s.store.FindByVerificationToken(ctx, in.Code, now)
	}
	u, err := s.consume(ctx, find, func(u *User) {
		u.IsVerified = true
		u.Verification = nil
		u.UpdatedAt = now
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "email verified", logger.UserID(u.ID), logger.Event("verify_email"))
	s.notify(ctx, u.ID, "welcome", s.notifier.SendWelcome(ctx, u.Email, u.Name))

	profile := u.Profile()
	return &profile, nil
}

// Login checks credentials of a verified user and issues a session.
// Unknown email, wrong password and unverified account all return
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (_ *Session, err error) {
	started := time.Now()
	defer func() { s.metrics.observe("login", started, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, ErrUserNotFound) {
		s.hasher.Verify(in.Password, s.dummyHash())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) || !u.IsVerified {
		return nil, ErrInvalidCredentials
	}

	now := s.clock()
	reload := func(ctx context.Context) (*User, error) { return s.store.FindByID(ctx, u.ID) }
	u, err = s.save(ctx, u, reload, func(u *User) {
		u.LastLogin = now
		u.UpdatedAt = now
	})
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(u)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user logged in", logger.UserID(u.ID), logger.Event("login"))
	return session, nil
}

// ForgotPassword issues a reset token and emails the reset link.
func (s *Service) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (err error) {
	started := time.Now()
	defer func() { s.metrics.observe("forgot_password", started, err) }()

	if err := in.Validate(); err != nil {
		return err
	}

	u, err := s.store.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, ErrUserNotFound) && s.nonDisclosing {
		s.logger.DebugContext(ctx, "password reset requested for unknown email", logger.Event("forgot_password"))
		return nil
	}
	if err != nil {
		return err
	}

	resetToken, err := token.ResetToken()
	if err != nil {
		return errors.Join(ErrTokenFailed, err)
	}

	now := s.clock()
	reload := func(ctx context.Context) (*User, error) { return s.store.FindByID(ctx, u.ID) }
	u, err = s.save(ctx, u, reload, func(u *User) {
		u.PasswordReset = &PendingToken{Token: resetToken, ExpiresAt: now.Add(s.resetTTL)}
		u.UpdatedAt = now
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset requested", logger.UserID(u.ID), logger.Event("forgot_password"))
	s.notify(ctx, u.ID, "password_reset", s.notifier.SendPasswordReset(ctx, u.Email, s.resetURL(resetToken)))
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) (err error) {
	started := time.Now()
	defer func() { s.metrics.observe("reset_password", started, err) }()

	if err := in.Validate(); err != nil {
		return err
	}

	now := s.clock()
	find := func(ctx context.Context) (*User, error) {
		return s.store.FindByResetToken(ctx, in.Token, now)
	}
	if _, err := find(ctx); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return errors.Join(ErrHashFailed, err)
	}

	u, err := s.consume(ctx, find, func(u *User) {
		u.PasswordHash = hash
		u.PasswordReset = nil
		u.UpdatedAt = now
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset", logger.UserID(u.ID), logger.Event("reset_password"))
	s.notify(ctx, u.ID, "reset_success", s.notifier.SendResetSuccess(ctx, u.Email))
	return nil
}

// CheckAuth returns the profile of an authenticated user id.
func (s *Service) CheckAuth(ctx context.Context, userID string) (_ *Profile, err error) {
	started := time.Now()
	defer func() { s.metrics.observe("check_auth", started, err) }()

	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.Profile()
	return &profile, nil
}

// consume loads the holder of a valid one-time token and writes apply's
// changes. If another request consumed the token first, the reload finds
// nothing and the caller gets ErrInvalidOrExpiredToken.
func (s *Service) consume(ctx context.Context, find func(context.Context) (*User, error), apply func(*User)) (*User, error) {
	u, err := find(ctx)
	if err == nil {
		u, err = s.save(ctx, u, find, apply)
	}
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrStaleUser) {
		return nil, ErrInvalidOrExpiredToken
	}
	return u, err
}

// save applies changes to u and writes it. On a version conflict it
// reloads and reapplies, up to maxSaveAttempts writes.
func (s *Service) save(ctx context.Context, u *User, reload func(context.Context) (*User, error), apply func(*User)) (*User, error) {
	for attempt := 1; ; attempt++ {
		apply(u)
		err := s.store.Update(ctx, u)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrStaleUser) || attempt == maxSaveAttempts {
			return nil, err
		}
		if u, err = reload(ctx); err != nil {
			return nil, err
		}
	}
}

func (s *Service) issueSession(u *User) (*Session, error) {
	tok, expiresAt, err := s.sessions.Issue(u.ID)
	if err != nil {
		return nil, errors.Join(ErrSessionFailed, err)
	}
	return &Session{Profile: u.Profile(), Token: tok, ExpiresAt: expiresAt}, nil
}

// notify logs a failed notification. Delivery failures never undo the
// operation that triggered them.
func (s *Service) notify(ctx context.Context, userID, kind string, err error) {
	if err == nil {
		return
	}
	s.logger.ErrorContext(ctx, "failed to send notification",
		logger.UserID(userID),
		slog.String("notification", kind),
		logger.Error(err),
	)
}
