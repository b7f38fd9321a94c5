// Package httphandler serves the JSON applications API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

const (
	adminPassHeader = "X-Admin-Pass"
	maxBodyBytes    = 64 << 10
)

// countryHeaders are consulted in order for the visitor's country code.
var countryHeaders = []string{"CF-IPCountry", "X-Country", "X-Vercel-IP-Country", "X-Geo-Country"}

// Handler is the HTTP driving adapter that serves the applications API.
type Handler struct {
	intake *application.IntakeService
	admin  *application.AdminService
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(intake *application.IntakeService, admin *application.AdminService, logger *slog.Logger) *Handler {
	return &Handler{
		intake: intake,
		admin:  admin,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterAPIRoutes registers the /api/ routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/applications", h.CreateApplication)
	mux.HandleFunc("GET /api/applications", h.ListApplications)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("/api/", h.NotFound)
}

// CreateApplication stores a pilot request.
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	tag := i18n.FromContext(r.Context())

	var req CreateApplicationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, i18n.T(tag, i18n.KeyInvalidBody))
		return
	}

	sub, err := h.intake.Submit(r.Context(), model.SubmissionInput{
		Email:   req.Email,
		Company: req.Company,
		Comment: req.Comment,
		Country: DetectCountry(r.Header),
	})
	if err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, i18n.T(tag, ve.MessageKey))
			return
		}
		h.logger.Error("failed to store application", "error", err)
		writeError(w, http.StatusInternalServerError, i18n.T(tag, i18n.KeySubmitSaveFailed))
		return
	}

	writeJSON(w, http.StatusCreated, CreateApplicationResponse{
		ID:        wireID(sub.ID),
		CreatedAt: sub.CreatedAt.UTC().Format(time.RFC3339Nano),
		Country:   optional(sub.Country),
		Message:   i18n.T(tag, i18n.KeySubmitReceived),
	})
}

// ListApplications returns every submission, newest first, to a caller
// holding the admin password.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	tag := i18n.FromContext(r.Context())

	subs, err := h.admin.ListSubmissions(r.Context(), r.Header.Get(adminPassHeader))
	switch {
	case errors.Is(err, driven.ErrCredentialMissing):
		writeError(w, http.StatusUnauthorized, i18n.T(tag, i18n.KeyPasswordRequired))
		return
	case errors.Is(err, driven.ErrCredentialInvalid):
		h.logger.Warn("rejected admin password", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusForbidden, i18n.T(tag, i18n.KeyPasswordIncorrect))
		return
	case err != nil:
		h.logger.Error("failed to list applications", "error", err)
		writeError(w, http.StatusInternalServerError, i18n.T(tag, i18n.KeyLoadFailed))
		return
	}

	resp := make([]ApplicationResponse, 0, len(subs))
	for _, s := range subs {
		resp = append(resp, toApplicationResponse(s))
	}

	writeCacheableJSON(w, r, resp)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// NotFound answers unknown /api/ routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, i18n.T(i18n.FromContext(r.Context()), i18n.KeyNotFound))
}

// DetectCountry returns the first non-blank country header set by the CDN or
// proxy in front of the server, uppercased.
func DetectCountry(header http.Header) string {
	for _, name := range countryHeaders {
		if v := strings.TrimSpace(header.Get(name)); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}
