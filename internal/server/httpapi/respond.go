package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/timbang/worktime/internal/errs"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps sentinel errors to HTTP status codes. The error text is
// passed through so callers see the conflicting value and can retry.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidTimestamp), errors.Is(err, errs.ErrOrderingViolation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrOpenSessionExists), errors.Is(err, errs.ErrAlreadyExists):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		writeErrorMessage(w, http.StatusUnauthorized, "bad credentials")
	case errors.Is(err, errs.ErrRateLimited):
		writeErrorMessage(w, http.StatusTooManyRequests, "too many attempts")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal")
	}
}
