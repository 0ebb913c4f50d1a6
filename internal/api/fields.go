package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
)

// fieldParams extracts the field key from the URL. A key the schema does not
// define is a 404 here: it comes from the client, not from the schema data.
func (s *Server) fieldParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	section := chi.URLParam(r, "section")
	property := chi.URLParam(r, "property")
	if _, err := s.resolver.Schema().Lookup(section, property); err != nil {
		respondDomainError(w, s.logger, core.ErrNotFound("field", section+"."+property))
		return "", "", false
	}
	return section, property, true
}

// handleGetField resolves one field of the session.
func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	section, property, ok := s.fieldParams(w, r)
	if !ok {
		return
	}

	f, err := sessionFrom(r).Form.Field(section, property)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// handleEditField applies control input to a field. The body is a
// field.Edit; the reply is the field resolved against the new tree.
func (s *Server) handleEditField(w http.ResponseWriter, r *http.Request) {
	section, property, ok := s.fieldParams(w, r)
	if !ok {
		return
	}

	var edit field.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := sessionFrom(r).Form.Edit(section, property, edit)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// handleAppendItem adds an empty slot to a list field.
func (s *Server) handleAppendItem(w http.ResponseWriter, r *http.Request) {
	section, property, ok := s.fieldParams(w, r)
	if !ok {
		return
	}

	f, err := sessionFrom(r).Form.AppendListItem(section, property)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, f)
}
