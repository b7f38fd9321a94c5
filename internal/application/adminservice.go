package application

import (
	"context"
	"fmt"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// AdminService serves the authenticated submission listing.
type AdminService struct {
	store    driven.SubmissionStore
	verifier driven.CredentialVerifier
}

// NewAdminService creates an AdminService.
func NewAdminService(store driven.SubmissionStore, verifier driven.CredentialVerifier) *AdminService {
	return &AdminService{store: store, verifier: verifier}
}

// ListSubmissions verifies the credential and returns all submissions newest
// first. It returns driven.ErrCredentialMissing or driven.ErrCredentialInvalid
// when authentication fails.
func (s *AdminService) ListSubmissions(ctx context.Context, credential string) ([]model.Submission, error) {
	if err := s.verifier.Verify(credential); err != nil {
		return nil, err
	}

	subs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}
