package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the HTML pages and the embedded static assets.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("POST /apply", h.Apply)
	mux.HandleFunc("GET /admin", h.Admin)
	mux.HandleFunc("POST /admin", h.AdminLogin)
}
