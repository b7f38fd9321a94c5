package driven

import (
	"context"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
)

// LocalCacheCap is the maximum number of records the local fallback cache
// holds. Recording past the cap evicts the oldest record.
const LocalCacheCap = 500

// LocalCache is the bounded, append-only client-side store of submissions.
// It is consulted when the applications service cannot be reached.
type LocalCache interface {
	// Record prepends the submissions in argument order, so the last one
	// becomes the most recent, and evicts the oldest entries past
	// LocalCacheCap.
	Record(ctx context.Context, subs ...model.Submission) error

	// List returns the cached records, most recent first.
	List(ctx context.Context) ([]model.Submission, error)
}
