// Package mail sends the submission confirmation email through the Mailgun
// HTTP API, or drops it into an outbox directory when Mailgun is not set up.
package mail

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const confirmationSubject = "MB3R Lab — pilot request received"

var (
	mdRenderer    = goldmark.New(goldmark.WithExtensions(extension.Linkify))
	htmlSanitizer = bluemonday.UGCPolicy()
	mdEscaper     = strings.NewReplacer(
		`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
		"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "~", `\~`,
	)
)

// Message is a rendered email ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// ConfirmationMessage builds the "pilot request received" email for company.
func ConfirmationMessage(from, to, company string) (Message, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		company = "—"
	}

	text := strings.Join([]string{
		"Hi there,",
		"",
		"Thanks for your interest in running a pilot with MB3R Lab.",
		"",
		"Company: " + company,
		"",
		"Our team will follow up shortly with next steps.",
		"",
		"— MB3R Lab",
	}, "\n")

	markdown := strings.Join([]string{
		"Hi there,",
		"",
		"Thanks for your interest in running a pilot with **MB3R Lab**.",
		"",
		"Company: " + mdEscaper.Replace(company),
		"",
		"Our team will follow up shortly with next steps.",
		"",
		"— MB3R Lab",
	}, "\n")

	html, err := renderMarkdown(markdown)
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    from,
		To:      to,
		Subject: confirmationSubject,
		Text:    text,
		HTML:    html,
	}, nil
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
