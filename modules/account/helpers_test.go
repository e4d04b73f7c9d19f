package account_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/jwt"
	"github.com/dmitrymomot/authservice/pkg/password"
)

const testSecret = "test-signing-secret-with-enough-bytes"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMessage struct {
	Kind  string
	To    string
	Value string
}

// recordingNotifier keeps every message so tests can read codes and links.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) record(kind, to, value string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{Kind: kind, To: to, Value: value})
	return nil
}

func (n *recordingNotifier) SendWelcome(_ context.Context, to, name string) error {
	return n.record("welcome", to, name)
}

func (n *recordingNotifier) SendVerification(_ context.Context, to, code string) error {
	return n.record("verification", to, code)
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, to, resetURL string) error {
	return n.record("reset", to, resetURL)
}

func (n *recordingNotifier) SendResetSuccess(_ context.Context, to string) error {
	return n.record("reset_success", to, "")
}

// last returns the value of the most recent message of kind sent to to.
func (n *recordingNotifier) last(kind, to string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Kind == kind && n.sent[i].To == to {
			return n.sent[i].Value, true
		}
	}
	return "", false
}

func (n *recordingNotifier) count(kind, to string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.sent {
		if m.Kind == kind && m.To == to {
			c++
		}
	}
	return c
}

type fixture struct {
	svc      *account.Service
	store    *account.MemoryStorage
	hasher   *password.Bcrypt
	sessions *jwt.Service
	notifier *recordingNotifier
	clock    *testClock
}

func newFixture(t *testing.T, opts ...account.ServiceOption) *fixture {
	t.Helper()

	clock := newTestClock()
	hasher, err := password.NewBcrypt(password.WithCost(password.MinCost))
	require.NoError(t, err)
	sessions, err := jwt.NewFromString(testSecret, jwt.WithClock(clock.Now))
	require.NoError(t, err)

	f := &fixture{
		store:    account.NewMemoryStorage(),
		hasher:   hasher,
		sessions: sessions,
		notifier: &recordingNotifier{},
		clock:    clock,
	}
	opts = append([]account.ServiceOption{account.WithClock(clock.Now)}, opts...)
	f.svc = account.NewService(f.store, f.hasher, f.sessions, f.notifier, opts...)
	return f
}

func (f *fixture) signup(t *testing.T, name, email, pass string) *account.Session {
	t.Helper()
	session, err := f.svc.Signup(context.Background(), account.SignupInput{Name: name, Email: email, Password: pass})
	require.NoError(t, err)
	return session
}

func (f *fixture) verificationCode(t *testing.T, email string) string {
	t.Helper()
	code, ok := f.notifier.last("verification", email)
	require.True(t, ok, "no verification email sent to %s", email)
	return code
}

func (f *fixture) signupVerified(t *testing.T, name, email, pass string) {
	t.Helper()
	f.signup(t, name, email, pass)
	_, err := f.svc.VerifyEmail(context.Background(), account.VerifyEmailInput{Code: f.verificationCode(t, email)})
	require.NoError(t, err)
}
