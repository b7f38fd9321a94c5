package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

var _ driven.Mailer = (*Outbox)(nil)

// Outbox writes each message as an .eml file into a directory for later
// pickup.
type Outbox struct {
	dir    string
	from   string
	logger *slog.Logger
	now    func() time.Time
}

// NewOutbox creates an Outbox writing into dir.
func NewOutbox(dir, from string, logger *slog.Logger) *Outbox {
	return &Outbox{dir: dir, from: from, logger: logger, now: time.Now}
}

// SendConfirmation implements driven.Mailer.
func (o *Outbox) SendConfirmation(_ context.Context, to, company string) error {
	msg, err := ConfirmationMessage(o.from, to, company)
	if err != nil {
		return err
	}

	raw, err := encodeMIME(msg, o.now())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(o.dir, 0o750); err != nil {
		return fmt.Errorf("create outbox dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.eml", o.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	path := filepath.Join(o.dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write outbox message: %w", err)
	}

	o.logger.Info("confirmation email written to outbox", "path", path)
	return nil
}

// encodeMIME renders msg as a multipart/alternative RFC 5322 message.
func encodeMIME(msg Message, date time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", msg.From)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", date.Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())

	return out.Bytes(), nil
}
