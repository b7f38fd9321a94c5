package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher answers like the applications service: the configured secret
// unlocks rows, an empty credential is 401 and anything else is 403. When
// outage is set every call fails with it instead.
type fakeFetcher struct {
	mu     sync.Mutex
	secret string
	rows   []model.Submission
	outage error
	calls  int

	// When gate is non-nil, calls made with gateCredential signal entered and
	// then wait for gate to close.
	gate           chan struct{}
	entered        chan struct{}
	gateCredential string
}

var _ driven.RemoteFetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) ListSubmissions(_ context.Context, credential string) ([]model.Submission, error) {
	f.mu.Lock()
	f.calls++
	gate, entered := f.gate, f.entered
	gated := gate != nil && credential == f.gateCredential
	f.mu.Unlock()

	if gated {
		entered <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outage != nil {
		return nil, f.outage
	}
	switch {
	case credential == "":
		return nil, &driven.RemoteError{Kind: model.FailureUnauthorized, Status: 401, Message: "Unauthorized"}
	case credential != f.secret:
		return nil, &driven.RemoteError{Kind: model.FailureForbidden, Status: 403, Message: "Forbidden"}
	}
	out := make([]model.Submission, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeFetcher) setOutage(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outage = err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memCache is an in-memory driven.LocalCache with the same ordering and cap
// as the file-backed one.
type memCache struct {
	mu      sync.Mutex
	items   []model.Submission
	listErr error
	recErr  error
}

var _ driven.LocalCache = (*memCache)(nil)

func (m *memCache) Record(_ context.Context, subs ...model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recErr != nil {
		return m.recErr
	}
	for _, s := range subs {
		m.items = append([]model.Submission{s}, m.items...)
	}
	if len(m.items) > driven.LocalCacheCap {
		m.items = m.items[:driven.LocalCacheCap]
	}
	return nil
}

func (m *memCache) List(_ context.Context) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Submission, len(m.items))
	copy(out, m.items)
	return out, nil
}

// fakeSubmitter plays the intake endpoint for FormService.
type fakeSubmitter struct {
	mu       sync.Mutex
	receipt  driven.SubmitReceipt
	err      error
	received []model.SubmissionInput
}

var _ driven.RemoteSubmitter = (*fakeSubmitter)(nil)

func (f *fakeSubmitter) Submit(_ context.Context, in model.SubmissionInput) (driven.SubmitReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, in)
	if f.err != nil {
		return driven.SubmitReceipt{}, f.err
	}
	return f.receipt, nil
}
