package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sessionmw "github.com/0xBEEFCAF3/LND-config-generator/internal/api/middleware"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	Platform string        `json:"platform,omitempty"`
	Settings settings.Tree `json:"settings,omitempty"`
}

// SessionResponse is the API response for a session.
type SessionResponse struct {
	ID        string        `json:"id"`
	Platform  string        `json:"platform"`
	CreatedAt time.Time     `json:"created_at"`
	LastUsed  time.Time     `json:"last_used"`
	Settings  settings.Tree `json:"settings"`
}

// SessionSummary is a session without its settings.
type SessionSummary struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// PresetSelector describes the preset control of a form.
type PresetSelector struct {
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

// FormResponse is the fully resolved form of a session.
type FormResponse struct {
	Session  string           `json:"session_id"`
	Platform string           `json:"platform"`
	Presets  PresetSelector   `json:"presets"`
	Sections []*field.Section `json:"sections"`
}

func newSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Platform:  s.Form.Platform(),
		CreatedAt: s.CreatedAt,
		LastUsed:  s.LastUsed(),
		Settings:  s.Form.Tree(),
	}
}

// sessionFrom returns the session loaded by the session middleware.
func sessionFrom(r *http.Request) *Session {
	s, _ := sessionmw.GetSession(r.Context()).(*Session)
	return s
}

// handleCreateSession starts a session from the schema defaults.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := req.Platform
	if p == "" {
		p = s.platform
	}
	switch p {
	case platform.Linux, platform.MacOS, platform.Windows:
	default:
		respondDomainError(w, s.logger, core.ErrValidation(core.CodeInvalidValue, "unknown platform: "+p))
		return
	}
	if req.Settings != nil {
		if unknown := preset.Unknown(preset.Preset{Settings: req.Settings}, s.resolver.Schema()); len(unknown) > 0 {
			respondDomainError(w, s.logger, core.ErrValidation(core.CodeInvalidValue, "unknown settings").
				WithDetail("keys", unknown))
			return
		}
	}

	session := s.sessions.Create(p, req.Settings)
	w.Header().Set("Location", "/api/v1/sessions/"+session.ID)
	respondJSON(w, http.StatusCreated, newSessionResponse(session))
}

// handleListSessions returns the live sessions, most recently used first.
func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.sessions.List()
	response := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, SessionSummary{
			ID:        session.ID,
			Platform:  session.Form.Platform(),
			CreatedAt: session.CreatedAt,
			LastUsed:  session.LastUsed(),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// handleGetSession returns the full settings tree of a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newSessionResponse(sessionFrom(r)))
}

// handleDeleteSession closes a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleGetForm resolves every section of the session's form.
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	sections, err := session.Form.Sections()
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, FormResponse{
		Session:  session.ID,
		Platform: session.Form.Platform(),
		Presets: PresetSelector{
			Description: preset.SelectorDescription,
			Options:     session.Form.Presets().Names(),
		},
		Sections: sections,
	})
}

// handleGetSection resolves one section of the session's form.
func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	section, err := sessionFrom(r).Form.Section(chi.URLParam(r, "section"))
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, section)
}

// handleSessionEvents streams the events of one session.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	s.sseHandler.Stream(w, r, sessionFrom(r).ID)
}
