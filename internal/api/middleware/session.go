// Package middleware provides HTTP middleware for the form API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionContextKey is the context key for storing the Session.
const sessionContextKey contextKey = "session"

// Session is the part of an editing session the middleware needs.
type Session interface {
	// SessionID returns the session identifier.
	SessionID() string
	// Touch updates the last accessed timestamp.
	Touch()
}

// SessionLookup finds live sessions by ID.
type SessionLookup interface {
	Lookup(id string) (Session, bool)
}

// GetSession retrieves the Session from the request context.
// Returns nil if no session is set.
func GetSession(ctx context.Context) Session {
	s, _ := ctx.Value(sessionContextKey).(Session)
	return s
}

// WithSession adds a Session to the request context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionMiddleware loads the session named by the {sessionID} URL parameter.
//
// Error responses:
//   - 400 Bad Request: sessionID missing from URL
//   - 404 Not Found: no live session with that ID
func SessionMiddleware(sessions SessionLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			if id == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"sessionID is required","code":"INVALID_VALUE"}`))
				return
			}

			s, ok := sessions.Lookup(id)
			if !ok {
				logger.Debug("session middleware: unknown session",
					"session_id", id,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"session not found","code":"NOT_FOUND"}`))
				return
			}
			s.Touch()

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
