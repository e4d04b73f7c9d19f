package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/email"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

func TestEmailNotifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		send     func(n *account.EmailNotifier) error
		subject  string
		tag      string
		contains []string
	}{
		{
			name:     "welcome",
			send:     func(n *account.EmailNotifier) error { return n.SendWelcome(context.Background(), "ann@x.com", "Ann") },
			subject:  account.SubjectWelcome,
			tag:      account.TagWelcome,
			contains: []string{"Ann"},
		},
		{
			name:     "verification",
			send:     func(n *account.EmailNotifier) error { return n.SendVerification(context.Background(), "ann@x.com", "482913") },
			subject:  account.SubjectVerification,
			tag:      account.TagVerification,
			contains: []string{"482913", "expire in 24 hours"},
		},
		{
			name: "password reset",
			send: func(n *account.EmailNotifier) error {
				return n.SendPasswordReset(context.Background(), "ann@x.com", "https://app.example.com/reset-password/abc")
			},
			subject:  account.SubjectPasswordReset,
			tag:      account.TagPasswordReset,
			contains: []string{"https://app.example.com/reset-password/abc", "expire in 1 hour"},
		},
		{
			name:    "reset success",
			send:    func(n *account.EmailNotifier) error { return n.SendResetSuccess(context.Background(), "ann@x.com") },
			subject: account.SubjectResetSuccess,
			tag:     account.TagResetSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := new(mockSender)
			var sent email.SendEmailParams
			sender.On("SendEmail", mock.Anything, mock.AnythingOfType("email.SendEmailParams")).
				Run(func(args mock.Arguments) { sent = args.Get(1).(email.SendEmailParams) }).
				Return(nil).Once()

			n := account.NewEmailNotifier(sender, 24*time.Hour, 30*time.Minute)
			require.NoError(t, tt.send(n))

			sender.AssertExpectations(t)
			assert.Equal(t, "ann@x.com", sent.SendTo)
			assert.Equal(t, tt.subject, sent.Subject)
			assert.Equal(t, tt.tag, sent.Tag)
			assert.Contains(t, sent.BodyHTML, "<html")
			for _, s := range tt.contains {
				assert.Contains(t, sent.BodyHTML, s)
			}
		})
	}
}

func TestEmailNotifier_SenderError(t *testing.T) {
	t.Parallel()

	sender := new(mockSender)
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("postmark unavailable")).Once()

	n := account.NewEmailNotifier(sender, time.Hour, time.Hour)
	err := n.SendResetSuccess(context.Background(), "ann@x.com")
	assert.ErrorIs(t, err, account.ErrNotificationFailed)
	sender.AssertExpectations(t)
}
