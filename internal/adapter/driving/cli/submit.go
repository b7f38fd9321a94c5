package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// formSubmitter is the part of application.FormService the submit command uses.
type formSubmitter interface {
	Submit(ctx context.Context, in model.SubmissionInput) (application.FormResult, error)
}

// Submit sends one pilot request and prints the outcome. A request saved to
// the local cache is reported but is not an error. Validation messages are
// printed and returned.
func Submit(ctx context.Context, form formSubmitter, lang language.Tag, in model.SubmissionInput, w io.Writer) error {
	res, err := form.Submit(ctx, in)
	if err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			text := ve.Message
			if text == "" {
				text = i18n.T(lang, ve.MessageKey)
			}
			fmt.Fprintln(w, text)
			return err
		}
		fmt.Fprintln(w, i18n.T(lang, i18n.KeySubmitFailed))
		return err
	}

	fmt.Fprintln(w, i18n.T(lang, res.MessageKey))
	fmt.Fprintf(w, "id=%s source=%s\n", res.Submission.ID, res.Submission.Source)
	return nil
}

// ListCache prints the local fallback cache, most recent first.
func ListCache(ctx context.Context, cache driven.LocalCache, lang language.Tag, w io.Writer) error {
	rows, err := cache.List(ctx)
	if err != nil {
		return fmt.Errorf("list local cache: %w", err)
	}
	_, err = io.WriteString(w, renderRows(lang, rows))
	return err
}
