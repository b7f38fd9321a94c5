package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// DefaultMailgunBaseURL is the public Mailgun API root.
const DefaultMailgunBaseURL = mailgun.APIBase

var _ driven.Mailer = (*Mailgun)(nil)

// Mailgun delivers mail through the Mailgun messages API.
type Mailgun struct {
	mg     *mailgun.MailgunImpl
	from   string
	logger *slog.Logger
}

// NewMailgun creates a Mailgun sender. An empty baseURL selects
// DefaultMailgunBaseURL.
func NewMailgun(baseURL, domain, apiKey, from string, logger *slog.Logger) *Mailgun {
	if baseURL == "" {
		baseURL = DefaultMailgunBaseURL
	}

	mg := mailgun.NewMailgun(domain, apiKey)
	mg.SetAPIBase(strings.TrimSuffix(baseURL, "/"))
	mg.SetClient(&http.Client{Timeout: 15 * time.Second})

	return &Mailgun{mg: mg, from: from, logger: logger}
}

// SendConfirmation implements driven.Mailer.
func (m *Mailgun) SendConfirmation(ctx context.Context, to, company string) error {
	if to == "" {
		return errors.New("send confirmation: empty recipient")
	}

	msg, err := ConfirmationMessage(m.from, to, company)
	if err != nil {
		return err
	}

	message := m.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	message.SetHtml(msg.HTML)

	status, id, err := m.mg.Send(ctx, message)
	if err != nil {
		if code := mailgun.GetStatusFromErr(err); code > 0 {
			return fmt.Errorf("mailgun request failed with status %d: %w", code, err)
		}
		return fmt.Errorf("mailgun request: %w", err)
	}

	m.logger.Debug("mailgun accepted message", "message_id", id, "status", status)
	return nil
}
