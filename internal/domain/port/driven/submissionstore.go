package driven

import (
	"context"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
)

// SubmissionStore defines the driven port for authoritative submission
// persistence. Create assigns the ID and creation timestamp; every returned
// record has Source set to model.SourceRemote.
type SubmissionStore interface {
	Create(ctx context.Context, input model.SubmissionInput) (model.Submission, error)

	// ListAll returns every submission ordered newest first.
	ListAll(ctx context.Context) ([]model.Submission, error)
}
