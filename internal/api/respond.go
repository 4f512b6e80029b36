package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/vaultmcp/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps a domain error to a status code and a generic message.
// Path violations never echo the offending input.
func (h *Handler) writeError(w http.ResponseWriter, op, input string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.logger.Error(op+" failed", slog.String("input", input), slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorBody(msg))
}

func statusFor(err error) (int, string) {
	switch {
	case apperr.IsPathViolation(err):
		return http.StatusBadRequest, "invalid or potentially unsafe path"
	case errors.Is(err, apperr.ErrWrongFileType):
		return http.StatusBadRequest, "wrong file type"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrDecode):
		return http.StatusUnprocessableEntity, "file is not valid UTF-8"
	case errors.Is(err, apperr.ErrOpen):
		return http.StatusUnprocessableEntity, "document could not be processed"
	case errors.Is(err, apperr.ErrVaultUnavailable):
		return http.StatusServiceUnavailable, "vault path is not configured or accessible"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
