package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/service"
)

// AuthValidator checks the Bearer access token and puts the user in the request context
type AuthValidator struct {
	users service.UserService
	log   zerolog.Logger
}

func NewAuthValidator(users service.UserService, log zerolog.Logger) *AuthValidator {
	return &AuthValidator{users: users, log: log}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeErr(w, http.StatusUnauthorized, "missing or invalid authorization")
			return
		}

		userID, sessionID, err := m.users.ValidateToken(r.Context(), strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			if errors.Is(err, domainerrors.ErrUnauthorized) {
				writeErr(w, http.StatusUnauthorized, "invalid token")
				return
			}
			// The session store could not answer; the token may be fine.
			m.log.Error().Err(err).Msg("token validation failed")
			writeJSONErr(w, http.StatusInternalServerError, "internal error", "internal_error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), userID, sessionID)))
	})
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSONErr(w, code, message, "unauthorized")
}

func writeJSONErr(w http.ResponseWriter, code int, message, errCode string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
