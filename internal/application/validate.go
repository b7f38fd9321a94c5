package application

import (
	"regexp"
	"strings"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// Field limits applied to every submission.
const (
	maxEmailLen   = 254
	maxCompanyLen = 200
	maxCommentLen = 4000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports user-correctable input problems. MessageKey selects
// a localized message from the i18n catalog; Message, when set, is a
// server-supplied message that must be shown verbatim.
type ValidationError struct {
	Field      string
	MessageKey string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "validation: " + e.Message
	}
	return "validation: " + e.Field + ": " + e.MessageKey
}

// NormalizeSubmission trims every field and lowercases the email.
func NormalizeSubmission(in model.SubmissionInput) model.SubmissionInput {
	return model.SubmissionInput{
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Company: strings.TrimSpace(in.Company),
		Comment: strings.TrimSpace(in.Comment),
		Country: strings.ToUpper(strings.TrimSpace(in.Country)),
	}
}

// ValidateSubmission checks a normalized submission and returns a
// *ValidationError for the first problem found.
func ValidateSubmission(in model.SubmissionInput) error {
	switch {
	case in.Email == "" || !emailPattern.MatchString(in.Email):
		return &ValidationError{Field: "email", MessageKey: i18n.KeyEmailInvalid}
	case len(in.Email) > maxEmailLen:
		return &ValidationError{Field: "email", MessageKey: i18n.KeyEmailTooLong}
	case in.Company == "":
		return &ValidationError{Field: "company", MessageKey: i18n.KeyCompanyRequired}
	case len([]rune(in.Company)) > maxCompanyLen:
		return &ValidationError{Field: "company", MessageKey: i18n.KeyCompanyTooLong}
	case len([]rune(in.Comment)) > maxCommentLen:
		return &ValidationError{Field: "comment", MessageKey: i18n.KeyCommentTooLong}
	}
	return nil
}
