package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/email/templates"
)

func TestAccountEmails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("verification", func(t *testing.T) {
		t.Parallel()
		html, err := templates.Render(ctx, templates.VerificationEmail("123456", 24))
		require.NoError(t, err)
		assert.Contains(t, html, "<title>Verify Your Email</title>")
		assert.Contains(t, html, "123456")
		assert.Contains(t, html, "expire in 24 hours")
	})

	t.Run("welcome escapes name", func(t *testing.T) {
		t.Parallel()
		html, err := templates.Render(ctx, templates.WelcomeEmail(`<script>alert("x")</script>`))
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, "&lt;script&gt;")
	})

	t.Run("reset link", func(t *testing.T) {
		t.Parallel()
		html, err := templates.Render(ctx, templates.PasswordResetEmail("https://app.example.com/reset-password/abc123", 1))
		require.NoError(t, err)
		assert.Contains(t, html, `href="https://app.example.com/reset-password/abc123"`)
		assert.Contains(t, html, "expire in 1 hour")
	})

	t.Run("reset link rejects javascript scheme", func(t *testing.T) {
		t.Parallel()
		html, err := templates.Render(ctx, templates.PasswordResetEmail("javascript:alert(1)", 1))
		require.NoError(t, err)
		assert.NotContains(t, html, "javascript:")
	})

	t.Run("reset success", func(t *testing.T) {
		t.Parallel()
		html, err := templates.Render(ctx, templates.ResetSuccessEmail())
		require.NoError(t, err)
		assert.Contains(t, html, "Password Reset Successful")
	})
}

func TestExpiryNotice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for hours, want := range map[int]string{
		0:  "will expire soon",
		1:  "will expire in 1 hour for",
		48: "will expire in 48 hours",
	} {
		html, err := templates.Render(ctx, templates.VerificationEmail("000000", hours))
		require.NoError(t, err)
		assert.Contains(t, html, want)
	}
}
