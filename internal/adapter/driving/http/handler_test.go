package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/mb3rlab/pilotdesk/internal/adapter/driving/http"
	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
)

// --- Mock store ---

type mockSubmissionStore struct {
	mu        sync.Mutex
	subs      []model.Submission // newest first
	createErr error
	listErr   error
}

func (m *mockSubmissionStore) Create(_ context.Context, in model.SubmissionInput) (model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return model.Submission{}, m.createErr
	}
	sub := model.Submission{
		ID:        strconv.Itoa(len(m.subs) + 1),
		Email:     in.Email,
		Company:   in.Company,
		Comment:   in.Comment,
		Country:   in.Country,
		CreatedAt: time.Date(2026, 5, 1, 10, 0, len(m.subs), 0, time.UTC),
		Source:    model.SourceRemote,
	}
	m.subs = append([]model.Submission{sub}, m.subs...)
	return sub, nil
}

func (m *mockSubmissionStore) ListAll(_ context.Context) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Submission, len(m.subs))
	copy(out, m.subs)
	return out, nil
}

const testPassword = "s3cret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupMux wires the API over store with the full middleware chain.
func setupMux(t *testing.T, store *mockSubmissionStore) http.Handler {
	t.Helper()

	verifier, err := application.NewPasswordVerifier(testPassword, "")
	require.NoError(t, err)

	logger := discardLogger()
	h := httphandler.NewHandler(
		application.NewIntakeService(store, nil, logger),
		application.NewAdminService(store, verifier),
		logger,
	)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, logger, httphandler.MiddlewareOptions{
		AllowedOrigins: []string{"*"},
		DefaultLang:    "ru",
	})
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func postApplication(handler http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func listApplications(handler http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestCreateApplication_HealthyEndpoint(t *testing.T) {
	store := &mockSubmissionStore{}
	handler := setupMux(t, store)

	rec := postApplication(handler, `{"email":"a@b.com","company":"Acme"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	decodeJSON(t, rec, &created)
	assert.Equal(t, float64(1), created["id"])
	assert.NotEmpty(t, created["created_at"])
	assert.Nil(t, created["country"])
	assert.Equal(t, "Заявка отправлена.", created["message"])

	rec = listApplications(handler, map[string]string{"X-Admin-Pass": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created["id"], listed[0]["id"])
	assert.Equal(t, created["created_at"], listed[0]["created_at"])
	assert.Equal(t, "a@b.com", listed[0]["email"])
	assert.Equal(t, "Acme", listed[0]["company"])
	assert.Nil(t, listed[0]["comment"])
	assert.Equal(t, "remote", listed[0]["source"])
}

func TestCreateApplication_NormalizesAndDetectsCountry(t *testing.T) {
	store := &mockSubmissionStore{}
	handler := setupMux(t, store)

	rec := postApplication(handler,
		`{"email":"  Lead@Example.COM ","company":" Acme ","comment":"  Pilot please "}`,
		map[string]string{"X-Country": " ", "X-Vercel-IP-Country": "nl", "X-Geo-Country": "DE"},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	decodeJSON(t, rec, &created)
	assert.Equal(t, "NL", created["country"])

	require.Len(t, store.subs, 1)
	assert.Equal(t, "lead@example.com", store.subs[0].Email)
	assert.Equal(t, "Acme", store.subs[0].Company)
	assert.Equal(t, "Pilot please", store.subs[0].Comment)
}

func TestCreateApplication_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		lang        string
		wantMessage string
	}{
		{"invalid email ru", `{"email":"nope","company":"Acme"}`, "", "Укажите корректный email."},
		{"invalid email en", `{"email":"nope","company":"Acme"}`, "en-US,en;q=0.9", "Please provide a valid email address."},
		{"missing company", `{"email":"a@b.com","company":"  "}`, "en", "Company is required."},
		{"malformed json", `{"email":`, "en", "Invalid request body."},
		{"wrong type", `{"email":42,"company":"Acme"}`, "en", "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSubmissionStore{}
			handler := setupMux(t, store)

			headers := map[string]string{}
			if tt.lang != "" {
				headers["Accept-Language"] = tt.lang
			}
			rec := postApplication(handler, tt.body, headers)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			decodeJSON(t, rec, &body)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Empty(t, store.subs)
		})
	}
}

func TestCreateApplication_StoreError(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{createErr: errors.New("disk I/O error")})

	rec := postApplication(handler, `{"email":"a@b.com","company":"Acme"}`, map[string]string{"Accept-Language": "en"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Unable to save your request.", body["message"])
}

func TestListApplications_Auth(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		wantStatus  int
		wantMessage string
	}{
		{"missing password", "", http.StatusUnauthorized, "Administrator password required."},
		{"wrong password", "letmein", http.StatusForbidden, "Incorrect password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSubmissionStore{subs: []model.Submission{{ID: "1", Email: "a@b.com"}}}
			handler := setupMux(t, store)

			headers := map[string]string{"Accept-Language": "en"}
			if tt.password != "" {
				headers["X-Admin-Pass"] = tt.password
			}
			rec := listApplications(handler, headers)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			decodeJSON(t, rec, &body)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.NotContains(t, rec.Body.String(), "a@b.com")
		})
	}
}

func TestListApplications_NewestFirstWithAllFields(t *testing.T) {
	store := &mockSubmissionStore{}
	handler := setupMux(t, store)

	postApplication(handler, `{"email":"first@b.com","company":"First"}`, nil)
	postApplication(handler, `{"email":"second@b.com","company":"Second","comment":"hi"}`, map[string]string{"CF-IPCountry": "ru"})

	rec := listApplications(handler, map[string]string{"X-Admin-Pass": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 2)
	assert.Equal(t, "second@b.com", listed[0]["email"])
	assert.Equal(t, "hi", listed[0]["comment"])
	assert.Equal(t, "RU", listed[0]["country"])
	assert.Equal(t, "first@b.com", listed[1]["email"])
}

func TestListApplications_EmptyIsArray(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{})

	rec := listApplications(handler, map[string]string{"X-Admin-Pass": testPassword})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListApplications_ETag(t *testing.T) {
	store := &mockSubmissionStore{}
	handler := setupMux(t, store)
	postApplication(handler, `{"email":"a@b.com","company":"Acme"}`, nil)

	rec := listApplications(handler, map[string]string{"X-Admin-Pass": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Values("Vary"), "X-Admin-Pass")

	rec = listApplications(handler, map[string]string{"X-Admin-Pass": testPassword, "If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	postApplication(handler, `{"email":"b@c.com","company":"Beta"}`, nil)
	rec = listApplications(handler, map[string]string{"X-Admin-Pass": testPassword, "If-None-Match": etag})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestListApplications_StoreError(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{listErr: errors.New("database is locked")})

	rec := listApplications(handler, map[string]string{"X-Admin-Pass": testPassword, "Accept-Language": "en"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Unable to load applications.", body["message"])
}

func TestHealth(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httphandler.HealthResponse
	decodeJSON(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	_, err := time.Parse(time.RFC3339, body.Time)
	assert.NoError(t, err)
}

func TestUnknownAPIRoute(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Not found.", body["message"])
}

func TestCORS(t *testing.T) {
	handler := setupMux(t, &mockSubmissionStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/applications", nil)
	req.Header.Set("Origin", "https://mb3r.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-admin-pass")
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_AllowList(t *testing.T) {
	logger := discardLogger()
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := httphandler.ApplyMiddleware(inner, logger, httphandler.MiddlewareOptions{
		AllowedOrigins: []string{"https://mb3r.example"},
	})

	tests := []struct {
		origin string
		want   string
	}{
		{"https://mb3r.example", "https://mb3r.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"), tt.origin)
	}

	// Pages outside /api/ get no CORS headers.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Origin", "https://mb3r.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.ApplyMiddleware(inner, discardLogger(), httphandler.MiddlewareOptions{DefaultLang: "en"})

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Internal server error.", body["message"])
}
