package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// PresetResponse is the API response for a preset.
type PresetResponse struct {
	Name     string        `json:"name"`
	Source   string        `json:"source,omitempty"`
	Settings settings.Tree `json:"settings,omitempty"`
}

// ApplyPresetRequest is the body of a preset application. Confirm carries
// the user's answer to preset.Prompt.
type ApplyPresetRequest struct {
	Confirm bool `json:"confirm"`
}

// ApplyPresetResponse reports an applied preset and the resulting tree.
type ApplyPresetResponse struct {
	Preset   string        `json:"preset"`
	Applied  bool          `json:"applied"`
	Settings settings.Tree `json:"settings"`
}

// handleListPresets returns the preset table in order, Defaults first.
func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	table := s.Presets()
	names := table.Names()
	response := make([]PresetResponse, 0, len(names))
	for _, name := range names {
		p, _ := table.Get(name)
		response = append(response, PresetResponse{Name: p.Name, Source: p.Source})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"description": preset.SelectorDescription,
		"presets":     response,
	})
}

// handleGetPreset returns one preset with its partial settings.
func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.Presets().Get(name)
	if !ok {
		respondDomainError(w, s.logger, core.ErrNotFound("preset", name))
		return
	}
	respondJSON(w, http.StatusOK, PresetResponse{Name: p.Name, Source: p.Source, Settings: p.Settings})
}

// handleApplyPreset replaces the session tree with a preset merged over the
// defaults. Without {"confirm": true} nothing changes and the reply is 409
// carrying the prompt to show.
func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req ApplyPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := chi.URLParam(r, "name")
	confirmer := preset.Declined
	if req.Confirm {
		confirmer = preset.Approved
	}

	session := sessionFrom(r)
	applied, err := session.Form.ApplyPreset(name, confirmer)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	if !applied {
		respondDomainError(w, s.logger, core.ErrConflict(core.CodeConfirmRequired, preset.Prompt).
			WithDetail("preset", name))
		return
	}

	respondJSON(w, http.StatusOK, ApplyPresetResponse{
		Preset:   name,
		Applied:  true,
		Settings: session.Form.Tree(),
	})
}
