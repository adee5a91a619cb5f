package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/service"
	"habit-tracker/internal/transport/http/middleware"
)

// Clock supplies the server's current date for requests that omit one
type Clock func() time.Time

func (c Clock) today() time.Time {
	if c == nil {
		return entity.Date(time.Now())
	}
	return entity.Date(c())
}

// dateParam reads a YYYY-MM-DD query parameter, falling back when absent
func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return service.ParseDate(v)
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}
