package driven

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
)

// RemoteError is a classified failure of a call to the applications service.
type RemoteError struct {
	Kind    model.FailureKind
	Status  int    // HTTP status, 0 when no response was received.
	Message string // Server-supplied message, if any.
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("applications service: %s (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("applications service: %s (status %d)", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("applications service: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("applications service: %s", e.Kind)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// FailureKindOf extracts the failure classification from err. Errors that are
// not a *RemoteError classify as model.FailureInternal; nil classifies as
// model.FailureNone.
func FailureKindOf(err error) model.FailureKind {
	if err == nil {
		return model.FailureNone
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return model.FailureInternal
}

// SubmitReceipt is what the intake service returns for an accepted submission.
type SubmitReceipt struct {
	ID        string
	CreatedAt time.Time
	Country   string
	Message   string
}

// RemoteFetcher retrieves the authoritative submission list. Failures are
// returned as *RemoteError.
type RemoteFetcher interface {
	ListSubmissions(ctx context.Context, credential string) ([]model.Submission, error)
}

// RemoteSubmitter posts a submission to the intake service. Failures are
// returned as *RemoteError.
type RemoteSubmitter interface {
	Submit(ctx context.Context, input model.SubmissionInput) (SubmitReceipt, error)
}
