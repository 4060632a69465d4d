package email

import (
	"context"
	"fmt"
)

// Service delivers outbound email. Callers that must not block on a
// slow mail host should wrap Send with their own timeout; the SMTP
// implementation also honors context cancellation.
type Service interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendPasswordResetConfirmation(ctx context.Context, to string) error
}

func passwordResetBody(resetURL string) string {
	return fmt.Sprintf(`
		<h2>Password Reset Request</h2>
		<p>You requested a password reset. Click the link below to reset your password:</p>
		<a href="%s">Reset Password</a>
		<p>Or copy this link: %s</p>
		<p>This link will expire in 1 hour.</p>
		<p>If you didn't request this, please ignore this email.</p>
	`, resetURL, resetURL)
}

const passwordResetConfirmationBody = `
	<h2>Password Reset Successful</h2>
	<p>Your password has been successfully reset.</p>
	<p>If you didn't make this change, please contact support immediately.</p>
`
