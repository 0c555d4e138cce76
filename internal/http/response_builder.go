package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"kakeibo/internal/core"
	applog "kakeibo/internal/log"
	"kakeibo/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classifyError maps a domain error to an HTTP status and error kind.
func classifyError(err error) (int, string) {
	switch {
	case core.IsValidation(err):
		return http.StatusUnprocessableEntity, applog.ErrorTypeValidation
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, applog.ErrorTypeValidation
	case errors.Is(err, services.ErrStaleView):
		return http.StatusConflict, applog.ErrorTypeConflict
	case core.IsPersistence(err):
		return http.StatusServiceUnavailable, applog.ErrorTypePersistence
	case core.IsCorruptState(err):
		return http.StatusInternalServerError, applog.ErrorTypeCorrupt
	default:
		return http.StatusInternalServerError, applog.ErrorTypeInternal
	}
}

// writeError renders err as JSON. Server-side failures are logged; client
// mistakes are only echoed back.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, kind := classifyError(err)
	resp := errorResponse{Error: err.Error(), Kind: kind}

	var ve *core.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	if status >= http.StatusInternalServerError {
		s.structured.LogError(r.Context(), "Request failed", err, kind, op)
		if kind == applog.ErrorTypeInternal {
			resp.Error = "internal error"
		}
	}
	writeJSON(w, status, resp)
}
