// Package web implements the HTML driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	httphandler "github.com/mb3rlab/pilotdesk/internal/adapter/driving/http"
	"github.com/mb3rlab/pilotdesk/internal/adapter/driving/web/templates"
	vm "github.com/mb3rlab/pilotdesk/internal/adapter/driving/web/viewmodel"
	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

const maxFormBytes = 64 << 10

// Handler serves the lead form and the admin page.
type Handler struct {
	intake *application.IntakeService
	admin  *application.AdminService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(intake *application.IntakeService, admin *application.AdminService, logger *slog.Logger) *Handler {
	return &Handler{intake: intake, admin: admin, logger: logger}
}

// Landing renders the empty pilot request form.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	page := vm.LandingPage{CSRFToken: csrfToken(w, r)}
	h.render(w, r, http.StatusOK, i18n.KeyPageTitle, templates.LandingPage(i18n.FromContext(r.Context()), page))
}

// Apply handles the form post.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	page := vm.LandingPage{
		CSRFToken: csrfToken(w, r),
		Email:     r.PostFormValue("email"),
		Company:   r.PostFormValue("company"),
		Comment:   r.PostFormValue("comment"),
	}

	_, err := h.intake.Submit(r.Context(), model.SubmissionInput{
		Email:   page.Email,
		Company: page.Company,
		Comment: page.Comment,
		Country: httphandler.DetectCountry(r.Header),
	})

	status := http.StatusOK
	var ve *application.ValidationError
	switch {
	case err == nil:
		page = vm.LandingPage{
			CSRFToken: page.CSRFToken,
			Notice:    &vm.Notice{Text: i18n.T(lang, i18n.KeySubmitReceived)},
		}
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		text := ve.Message
		if text == "" {
			text = i18n.T(lang, ve.MessageKey)
		}
		page.Notice = &vm.Notice{Text: text, Error: true}
	default:
		h.logger.Error("failed to store application", "error", err)
		status = http.StatusInternalServerError
		page.Notice = &vm.Notice{Text: i18n.T(lang, i18n.KeySubmitSaveFailed), Error: true}
	}

	h.render(w, r, status, i18n.KeyPageTitle, templates.LandingPage(lang, page))
}

// Admin renders the locked admin page.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromContext(r.Context())
	page := vm.AdminPage{
		CSRFToken:   csrfToken(w, r),
		Locked:      true,
		OverlayText: i18n.T(lang, application.OverlayMessageKey(model.LockStateLocked, model.FailureNone, false)),
	}
	h.render(w, r, http.StatusOK, i18n.KeyAdminTitle, templates.AdminPage(lang, page))
}

// AdminLogin checks the posted password and renders the table, or the locked
// page with the reason.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	page := vm.AdminPage{CSRFToken: csrfToken(w, r)}

	subs, err := h.admin.ListSubmissions(r.Context(), r.PostFormValue("password"))

	status := http.StatusOK
	kind := model.FailureNone
	switch {
	case err == nil:
		page.Status = &vm.Notice{Text: i18n.T(lang, i18n.KeyAccessGranted)}
		page.Rows = toSubmissionRows(subs)
	case errors.Is(err, driven.ErrCredentialMissing):
		status, kind = http.StatusUnauthorized, model.FailureUnauthorized
	case errors.Is(err, driven.ErrCredentialInvalid):
		status, kind = http.StatusForbidden, model.FailureForbidden
	default:
		h.logger.Error("failed to list applications", "error", err)
		status, kind = http.StatusInternalServerError, model.FailureInternal
	}

	if err != nil {
		key := application.OverlayMessageKey(model.LockStateLocked, kind, false)
		page.Locked = true
		page.OverlayText = i18n.T(lang, key)
		if kind.IsAuthFailure() {
			page.Status = &vm.Notice{Text: i18n.T(lang, key), Error: true}
		}
	}

	h.render(w, r, status, i18n.KeyAdminTitle, templates.AdminPage(lang, page))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, titleKey string, body templ.Component) {
	lang := i18n.FromContext(r.Context())
	layout := templates.Layout(lang, i18n.T(lang, titleKey), body)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

func toSubmissionRows(subs []model.Submission) []vm.SubmissionRow {
	rows := make([]vm.SubmissionRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, vm.SubmissionRow{
			ID:          s.ID,
			Email:       s.Email,
			Company:     s.Company,
			CommentHTML: RenderMarkdown(s.Comment),
			Country:     s.Country,
			CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
			Source:      string(s.Source),
		})
	}
	return rows
}

