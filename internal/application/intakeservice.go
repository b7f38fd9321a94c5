// Package application contains use-case orchestration services: the intake
// and admin services behind the HTTP API, and the client-side session
// controller and submission form.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// mailTimeout bounds a single confirmation send.
const mailTimeout = 30 * time.Second

// IntakeService accepts pilot requests: it normalizes and validates input,
// persists the record, and sends the confirmation email in the background.
type IntakeService struct {
	store  driven.SubmissionStore
	mailer driven.Mailer
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewIntakeService creates an IntakeService. mailer may be nil, in which case
// no confirmation is sent.
func NewIntakeService(store driven.SubmissionStore, mailer driven.Mailer, logger *slog.Logger) *IntakeService {
	return &IntakeService{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// Submit validates and stores a submission. Validation failures are returned
// as *ValidationError. A mail failure never fails the submission.
func (s *IntakeService) Submit(ctx context.Context, input model.SubmissionInput) (model.Submission, error) {
	normalized := NormalizeSubmission(input)
	if err := ValidateSubmission(normalized); err != nil {
		return model.Submission{}, err
	}

	sub, err := s.store.Create(ctx, normalized)
	if err != nil {
		return model.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	s.sendConfirmation(ctx, sub)

	return sub, nil
}

// sendConfirmation fires the confirmation email without blocking the caller.
// The request context is detached so the send outlives the HTTP response.
func (s *IntakeService) sendConfirmation(ctx context.Context, sub model.Submission) {
	if s.mailer == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()

		if err := s.mailer.SendConfirmation(mailCtx, sub.Email, sub.Company); err != nil {
			s.logger.Error("confirmation email failed", "submission_id", sub.ID, "error", err)
			return
		}
		s.logger.Info("confirmation email sent", "submission_id", sub.ID)
	}()
}

// Wait blocks until every in-flight confirmation send has finished.
func (s *IntakeService) Wait() {
	s.wg.Wait()
}
