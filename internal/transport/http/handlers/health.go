package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthCheck is one named dependency probe
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves /health with the database and optional Redis checks.
type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true
	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			checks[c.Name] = "down: " + err.Error()
			allOK = false
		} else {
			checks[c.Name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allOK {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "one or more checks failed",
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Checks: checks})
}
