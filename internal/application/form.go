package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// FormOutcome tells the caller where a submission ended up.
type FormOutcome int

const (
	FormSent FormOutcome = iota
	FormSavedLocally
)

// FormResult is the outcome of a form submission.
type FormResult struct {
	Submission model.Submission
	Outcome    FormOutcome
	MessageKey string
}

// FormService is the client-side write path. It validates like the server
// does and falls back to the local cache when the intake endpoint cannot be
// used.
type FormService struct {
	submitter driven.RemoteSubmitter
	cache     driven.LocalCache
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewFormService creates a FormService.
func NewFormService(submitter driven.RemoteSubmitter, cache driven.LocalCache, logger *slog.Logger) *FormService {
	return &FormService{
		submitter: submitter,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return "local-" + uuid.NewString() },
	}
}

// Submit sends in to the intake endpoint. A fallback-eligible failure stores a
// locally synthesized record instead and is reported as FormSavedLocally, not
// as an error. A 400 from the server surfaces as a *ValidationError carrying
// the server's message. A local record keeps the email as typed, trimmed
// only; the server lowercases it when the request is finally delivered.
func (f *FormService) Submit(ctx context.Context, in model.SubmissionInput) (FormResult, error) {
	typedEmail := strings.TrimSpace(in.Email)
	in = NormalizeSubmission(in)
	if err := ValidateSubmission(in); err != nil {
		return FormResult{}, err
	}

	receipt, err := f.submitter.Submit(ctx, in)
	if err == nil {
		sub := model.Submission{
			ID:        receipt.ID,
			Email:     in.Email,
			Company:   in.Company,
			Comment:   in.Comment,
			Country:   receipt.Country,
			CreatedAt: receipt.CreatedAt,
			Source:    model.SourceRemote,
		}
		f.logger.Info("submission sent", "id", sub.ID)
		return FormResult{Submission: sub, Outcome: FormSent, MessageKey: i18n.KeySubmitSent}, nil
	}

	kind := driven.FailureKindOf(err)
	switch {
	case kind == model.FailureValidation:
		var re *driven.RemoteError
		msg := ""
		if errors.As(err, &re) {
			msg = re.Message
		}
		return FormResult{}, &ValidationError{MessageKey: i18n.KeySubmitFailed, Message: msg}
	case !kind.FallbackEligible():
		return FormResult{}, fmt.Errorf("submit application: %w", err)
	}

	sub := model.Submission{
		ID:        f.newID(),
		Email:     typedEmail,
		Company:   in.Company,
		Comment:   in.Comment,
		Country:   in.Country,
		CreatedAt: f.now().UTC(),
		Source:    model.SourceLocal,
	}
	if f.cache == nil {
		return FormResult{}, fmt.Errorf("submit application: %w", err)
	}
	if cerr := f.cache.Record(ctx, sub); cerr != nil {
		return FormResult{}, fmt.Errorf("save submission locally: %w", errors.Join(cerr, err))
	}

	f.logger.Warn("intake service unavailable, submission saved locally",
		"id", sub.ID, "kind", kind, "error", err)
	return FormResult{Submission: sub, Outcome: FormSavedLocally, MessageKey: i18n.KeySubmitOffline}, nil
}
