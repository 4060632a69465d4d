package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService returns a Service backed by gomail over SMTP.
func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	// gomail has no context support; run the dial-and-send in a
	// goroutine so a stalled mail host cannot outlive the deadline.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("email send aborted: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}
}

func (s *smtpService) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return s.Send(ctx, to, "Password Reset Request", passwordResetBody(resetURL))
}

func (s *smtpService) SendPasswordResetConfirmation(ctx context.Context, to string) error {
	return s.Send(ctx, to, "Password Reset Successful", passwordResetConfirmationBody)
}
