// Package api provides the HTTP REST API of the configuration form: editing
// sessions, resolved fields, edits and presets.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sessionmw "github.com/0xBEEFCAF3/LND-config-generator/internal/api/middleware"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/web/sse"
)

// Server provides HTTP REST API endpoints for form editing.
type Server struct {
	router      chi.Router
	resolver    *field.Resolver
	presetsMu   sync.RWMutex
	presets     *preset.Table
	sessions    *SessionStore
	eventBus    *events.EventBus
	sseHandler  *sse.Handler
	platform    string
	maxSessions int
	logger      *slog.Logger
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithEventBus enables event streaming of session activity.
func WithEventBus(bus *events.EventBus) ServerOption {
	return func(s *Server) {
		s.eventBus = bus
	}
}

// WithPlatform sets the platform new sessions target when the request does
// not name one. Empty means the running host.
func WithPlatform(p string) ServerOption {
	return func(s *Server) {
		s.platform = p
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) ServerOption {
	return func(s *Server) {
		s.maxSessions = n
	}
}

// NewServer creates a new API server. A nil table offers only Defaults.
func NewServer(resolver *field.Resolver, presets *preset.Table, opts ...ServerOption) *Server {
	if presets == nil {
		presets, _ = preset.NewTable()
	}
	s := &Server{
		resolver: resolver,
		presets:  presets,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.platform == "" {
		s.platform = platform.Detect()
	}

	s.sessions = NewSessionStore(resolver, presets, s.eventBus, s.maxSessions, s.logger)
	if s.eventBus != nil {
		s.sseHandler = sse.NewHandler(s.eventBus, sse.WithLogger(s.logger))
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the live session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Presets returns the preset table offered to new sessions.
func (s *Server) Presets() *preset.Table {
	s.presetsMu.RLock()
	defer s.presetsMu.RUnlock()
	return s.presets
}

// SetPresets replaces the preset table. Live sessions keep the table they
// were created with.
func (s *Server) SetPresets(t *preset.Table) {
	s.presetsMu.Lock()
	s.presets = t
	s.presetsMu.Unlock()
	s.sessions.SetPresets(t)
	s.logger.Info("presets replaced", "presets", t.Len())
}

// SSEHandler returns the event stream handler, nil without an event bus.
func (s *Server) SSEHandler() *sse.Handler {
	return s.sseHandler
}

// setupRouter configures Chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleAPIRoot)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Get("/{name}", s.handleGetPreset)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Use(sessionmw.SessionMiddleware(s.sessions, s.logger))

				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/form", s.handleGetForm)
				r.Get("/form/{section}", s.handleGetSection)

				r.Route("/fields/{section}/{property}", func(r chi.Router) {
					r.Get("/", s.handleGetField)
					r.Put("/", s.handleEditField)
					r.Post("/items", s.handleAppendItem)
				})

				r.Post("/presets/{name}", s.handleApplyPreset)

				if s.sseHandler != nil {
					r.Get("/events", s.handleSessionEvents)
				}
			})
		})

		if s.sseHandler != nil {
			sse.RegisterRoutes(r, s.sseHandler)
		}
	})

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAPIRoot returns API information.
func (s *Server) handleAPIRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version":  "v1",
		"name":     "lndconf-api",
		"sessions": s.sessions.Len(),
	})
}
