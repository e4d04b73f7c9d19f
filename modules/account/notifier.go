package account

import (
	"context"
	"errors"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/authservice/pkg/email"
	"github.com/dmitrymomot/authservice/pkg/email/templates"
)

// Notifier delivers account emails.
type Notifier interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendVerification(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendResetSuccess(ctx context.Context, to string) error
}

const (
	SubjectWelcome       = "Welcome to Our Service"
	SubjectVerification  = "Verify Your Email"
	SubjectPasswordReset = "Reset Your Password"
	SubjectResetSuccess  = "Password Reset Successful"
)

const (
	TagWelcome       = "welcome"
	TagVerification  = "email-verification"
	TagPasswordReset = "password-reset"
	TagResetSuccess  = "password-reset-success"
)

// EmailNotifier renders account emails and hands them to an email.EmailSender.
type EmailNotifier struct {
	sender          email.EmailSender
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewEmailNotifier returns an EmailNotifier. The TTLs only affect the
// expiry wording in the messages; pass the values the Service uses.
func NewEmailNotifier(sender email.EmailSender, verificationTTL, resetTTL time.Duration) *EmailNotifier {
	return &EmailNotifier{
		sender:          sender,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

func (n *EmailNotifier) SendWelcome(ctx context.Context, to, name string) error {
	return n.send(ctx, to, SubjectWelcome, TagWelcome, templates.WelcomeEmail(name))
}

func (n *EmailNotifier) SendVerification(ctx context.Context, to, code string) error {
	return n.send(ctx, to, SubjectVerification, TagVerification,
		templates.VerificationEmail(code, hours(n.verificationTTL)))
}

func (n *EmailNotifier) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return n.send(ctx, to, SubjectPasswordReset, TagPasswordReset,
		templates.PasswordResetEmail(resetURL, hours(n.resetTTL)))
}

func (n *EmailNotifier) SendResetSuccess(ctx context.Context, to string) error {
	return n.send(ctx, to, SubjectResetSuccess, TagResetSuccess, templates.ResetSuccessEmail())
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, tag string, body templ.Component) error {
	html, err := templates.Render(ctx, body)
	if err != nil {
		return errors.Join(ErrNotificationFailed, err)
	}

	if err := n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: html,
		Tag:      tag,
	}); err != nil {
		return errors.Join(ErrNotificationFailed, err)
	}
	return nil
}

// hours rounds d up to whole hours, minimum one.
func hours(d time.Duration) int {
	h := int((d + time.Hour - 1) / time.Hour)
	return max(h, 1)
}
