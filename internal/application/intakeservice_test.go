package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// --- Mock store and mailer ---

type mockSubmissionStore struct {
	mu        sync.Mutex
	created   []model.SubmissionInput
	rows      []model.Submission
	createErr error
	listErr   error
}

func (m *mockSubmissionStore) Create(_ context.Context, in model.SubmissionInput) (model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return model.Submission{}, m.createErr
	}
	m.created = append(m.created, in)
	return model.Submission{
		ID:        "1",
		Email:     in.Email,
		Company:   in.Company,
		Comment:   in.Comment,
		Country:   in.Country,
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Source:    model.SourceRemote,
	}, nil
}

func (m *mockSubmissionStore) ListAll(_ context.Context) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.listErr
}

type mockMailer struct {
	mu    sync.Mutex
	sent  []string
	err   error
	ctxOK []bool
}

func (m *mockMailer) SendConfirmation(ctx context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.ctxOK = append(m.ctxOK, ctx.Err() == nil)
	return m.err
}

// --- IntakeService tests ---

func TestIntakeService_Submit(t *testing.T) {
	store := &mockSubmissionStore{}
	mailer := &mockMailer{}
	svc := NewIntakeService(store, mailer, discardLogger())

	sub, err := svc.Submit(context.Background(), model.SubmissionInput{
		Email:   "  Lead@Example.COM ",
		Company: " Acme ",
		Comment: "  ",
		Country: "de",
	})
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "lead@example.com", sub.Email)
	assert.Equal(t, "Acme", sub.Company)
	assert.Empty(t, sub.Comment)
	assert.Equal(t, "DE", sub.Country)
	assert.Equal(t, []string{"lead@example.com"}, mailer.sent)
}

func TestIntakeService_MailOutlivesRequestContext(t *testing.T) {
	store := &mockSubmissionStore{}
	mailer := &mockMailer{}
	svc := NewIntakeService(store, mailer, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Submit(ctx, model.SubmissionInput{Email: "a@b.com", Company: "Acme"})
	require.NoError(t, err)
	cancel()
	svc.Wait()

	require.Len(t, mailer.ctxOK, 1)
	assert.True(t, mailer.ctxOK[0])
}

func TestIntakeService_MailFailureDoesNotFailSubmit(t *testing.T) {
	svc := NewIntakeService(&mockSubmissionStore{}, &mockMailer{err: errors.New("smtp down")}, discardLogger())

	_, err := svc.Submit(context.Background(), model.SubmissionInput{Email: "a@b.com", Company: "Acme"})
	svc.Wait()

	assert.NoError(t, err)
}

func TestIntakeService_NilMailer(t *testing.T) {
	svc := NewIntakeService(&mockSubmissionStore{}, nil, discardLogger())

	_, err := svc.Submit(context.Background(), model.SubmissionInput{Email: "a@b.com", Company: "Acme"})
	svc.Wait()

	assert.NoError(t, err)
}

func TestIntakeService_Validation(t *testing.T) {
	long := func(n int) string {
		b := make([]rune, n)
		for i := range b {
			b[i] = 'ж'
		}
		return string(b)
	}

	tests := []struct {
		name    string
		input   model.SubmissionInput
		field   string
		wantKey string
	}{
		{"missing email", model.SubmissionInput{Company: "Acme"}, "email", i18n.KeyEmailInvalid},
		{"malformed email", model.SubmissionInput{Email: "a@b", Company: "Acme"}, "email", i18n.KeyEmailInvalid},
		{"email with space", model.SubmissionInput{Email: "a b@c.de", Company: "Acme"}, "email", i18n.KeyEmailInvalid},
		{"email too long", model.SubmissionInput{Email: long(250) + "@b.co", Company: "Acme"}, "email", i18n.KeyEmailTooLong},
		{"blank company", model.SubmissionInput{Email: "a@b.com", Company: "   "}, "company", i18n.KeyCompanyRequired},
		{"company too long", model.SubmissionInput{Email: "a@b.com", Company: long(201)}, "company", i18n.KeyCompanyTooLong},
		{"comment too long", model.SubmissionInput{Email: "a@b.com", Company: "Acme", Comment: long(4001)}, "comment", i18n.KeyCommentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSubmissionStore{}
			svc := NewIntakeService(store, nil, discardLogger())

			_, err := svc.Submit(context.Background(), tt.input)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.wantKey, ve.MessageKey)
			assert.Empty(t, store.created)
		})
	}
}

func TestIntakeService_StoreError(t *testing.T) {
	svc := NewIntakeService(&mockSubmissionStore{createErr: errors.New("disk I/O error")}, &mockMailer{}, discardLogger())

	_, err := svc.Submit(context.Background(), model.SubmissionInput{Email: "a@b.com", Company: "Acme"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create submission")
}
