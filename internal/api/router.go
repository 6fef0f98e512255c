package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pages and their navigation artifacts. Page paths contain slashes,
	// so the per-page operations hang off a wildcard.
	r.Get("/pages", h.ListPages)
	r.Get("/pages/*", h.PageResource)
	r.Post("/pages/*", h.PagePointer)

	// Site-wide link graph.
	r.Get("/graph", h.Graph)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
