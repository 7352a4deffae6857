package email

import (
	"context"
	"log/slog"
)

// LogMailer logs the links instead of sending anything.
type LogMailer struct {
	FrontendURL string
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	slog.Info("verification email (not sent, SMTP disabled)",
		slog.String("to", email),
		slog.String("link", VerificationLink(m.FrontendURL, token)),
	)

	return nil
}

func (m *LogMailer) SendResetPasswordEmail(ctx context.Context, email, token string) error {
	slog.Info("reset password email (not sent, SMTP disabled)",
		slog.String("to", email),
		slog.String("link", ResetPasswordLink(m.FrontendURL, token)),
	)

	return nil
}
