package sse

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts h at /events on the given chi router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/events", h.ServeHTTP)
}
