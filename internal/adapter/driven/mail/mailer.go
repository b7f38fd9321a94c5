package mail

import (
	"context"
	"log/slog"

	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// Settings selects and configures a delivery backend.
type Settings struct {
	From           string
	MailgunAPIKey  string
	MailgunDomain  string
	MailgunBaseURL string
	OutboxDir      string
}

// New returns the Mailgun sender when an API key and domain are set, the
// outbox when a directory is set, and otherwise a mailer that skips every
// send with a warning.
func New(s Settings, logger *slog.Logger) driven.Mailer {
	switch {
	case s.MailgunAPIKey != "" && s.MailgunDomain != "" && s.From != "":
		logger.Info("mail delivery via mailgun", "domain", s.MailgunDomain)
		return NewMailgun(s.MailgunBaseURL, s.MailgunDomain, s.MailgunAPIKey, s.From, logger)
	case s.OutboxDir != "":
		logger.Info("mail delivery via outbox", "dir", s.OutboxDir)
		return NewOutbox(s.OutboxDir, s.From, logger)
	default:
		logger.Warn("mail delivery is not configured, confirmation emails will be skipped")
		return skipMailer{logger: logger}
	}
}

type skipMailer struct {
	logger *slog.Logger
}

func (m skipMailer) SendConfirmation(context.Context, string, string) error {
	m.logger.Warn("mail delivery is not configured, skipping confirmation")
	return nil
}
