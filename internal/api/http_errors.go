package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func httpStatusForDomainError(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	if core.IsSchemaLookup(err) {
		return http.StatusInternalServerError, true
	}
	if errors.Is(err, field.ErrNotRendered) {
		return http.StatusNotFound, true
	}

	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		return 0, false
	}

	switch domErr.Category {
	case core.ErrCatValidation:
		return http.StatusUnprocessableEntity, true
	case core.ErrCatNotFound:
		return http.StatusNotFound, true
	case core.ErrCatConflict:
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, true
	}
}

// respondDomainError maps err to a status and a coded body. Errors outside the
// domain are logged and reported as a generic 500.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, ok := httpStatusForDomainError(err)
	if !ok {
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	body := ErrorResponse{Error: err.Error()}
	var lookup *core.SchemaLookupError
	var domErr *core.DomainError
	switch {
	case errors.As(err, &lookup):
		body.Code = core.CodeSchemaLookup
		body.Details = map[string]interface{}{"key": lookup.Key()}
	case errors.Is(err, field.ErrNotRendered):
		body.Code = core.CodeNotRendered
	case errors.As(err, &domErr):
		body.Error = domErr.Message
		body.Code = domErr.Code
		body.Details = domErr.Details
	}
	respondJSON(w, status, body)
}
