package httphandler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/justinas/alice"

	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// MiddlewareOptions configures ApplyMiddleware.
type MiddlewareOptions struct {
	AllowedOrigins []string // "*" allows any origin.
	DefaultLang    string
}

// ApplyMiddleware wraps h with request logging, language selection, panic
// recovery and CORS for the /api/ routes.
func ApplyMiddleware(h http.Handler, logger *slog.Logger, opts MiddlewareOptions) http.Handler {
	return alice.New(
		loggingMiddleware(logger),
		languageMiddleware(opts.DefaultLang),
		recoveryMiddleware(logger),
		corsMiddleware(opts.AllowedOrigins),
	).Then(h)
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

func loggingMiddleware(logger *slog.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

// languageMiddleware stores the negotiated language in the request context.
func languageMiddleware(defaultLang string) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := i18n.Match(r.Header.Get("Accept-Language"), defaultLang)
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(i18n.WithTag(r.Context(), tag)))
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("panic recovered",
						"panic", v,
						"path", r.URL.Path,
					)
					writeError(w, http.StatusInternalServerError, i18n.T(i18n.FromContext(r.Context()), i18n.KeyInternal))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware adds CORS headers to /api/ responses and answers preflight
// requests directly.
func corsMiddleware(allowed []string) alice.Constructor {
	anyOrigin := slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowed, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Headers", "content-type, x-admin-pass, if-none-match")
			h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			h.Set("Access-Control-Expose-Headers", "ETag")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
