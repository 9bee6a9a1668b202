package services

import (
	"context"
	"log/slog"
	"time"
)

// PasswordResetMail is the content of a reset email.
type PasswordResetMail struct {
	To        string
	Name      string
	Link      string
	ExpiresAt time.Time
}

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, mail PasswordResetMail) error
}

// LogMailer writes emails to the structured log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, mail PasswordResetMail) error {
	m.logger.InfoContext(ctx, "password reset email",
		slog.String("to", mail.To),
		slog.String("link", mail.Link),
		slog.Time("expires_at", mail.ExpiresAt),
	)
	return nil
}
