package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domainerrors "habit-tracker/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	writeJSON(w, code, map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceErr maps domain errors to HTTP responses. Anything unrecognized is logged and hidden.
func writeServiceErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, "", err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, "", "not found")
	case errors.Is(err, domainerrors.ErrUserExists), errors.Is(err, domainerrors.ErrConstraintViolation):
		writeErr(w, http.StatusConflict, "", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid username or password")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
	default:
		log.Error().Err(err).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
	}
}
