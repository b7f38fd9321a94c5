package httphandler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeCacheableJSON writes v with a strong ETag derived from the body and
// answers 304 when the request already holds that version.
func writeCacheableJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Cache-Control", "private, no-cache")
	h.Add("Vary", adminPassHeader)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Message string `json:"message"`
}

// CreateApplicationRequest is the JSON body accepted by the intake endpoint.
type CreateApplicationRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
	Comment string `json:"comment"`
}

// CreateApplicationResponse acknowledges a stored submission.
type CreateApplicationResponse struct {
	ID        any     `json:"id"`
	CreatedAt string  `json:"created_at"`
	Country   *string `json:"country"`
	Message   string  `json:"message"`
}

// ApplicationResponse is the JSON representation of a submission.
type ApplicationResponse struct {
	ID        any     `json:"id"`
	Email     string  `json:"email"`
	Company   string  `json:"company"`
	Comment   *string `json:"comment"`
	Country   *string `json:"country"`
	CreatedAt string  `json:"created_at"`
	Source    string  `json:"source"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toApplicationResponse(s model.Submission) ApplicationResponse {
	return ApplicationResponse{
		ID:        wireID(s.ID),
		Email:     s.Email,
		Company:   s.Company,
		Comment:   optional(s.Comment),
		Country:   optional(s.Country),
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
		Source:    string(s.Source),
	}
}

// wireID keeps numeric database ids numeric on the wire.
func wireID(id string) any {
	if id == "" {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	return json.Number(id)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
