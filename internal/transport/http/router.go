package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "habit-tracker/docs"
	"habit-tracker/internal/transport/http/handlers"
)

type RouterConfig struct {
	AuthHandler   *handlers.AuthHandler
	HabitHandler  *handlers.HabitHandler
	TaskHandler   *handlers.TaskHandler
	StatsHandler  *handlers.StatsHandler
	HealthHandler *handlers.HealthHandler
	RequireJWT    func(http.Handler) http.Handler
	Log           zerolog.Logger
	Secure        func(http.Handler) http.Handler
	IPRateLimit   func(http.Handler) http.Handler
	Metrics       func(http.Handler) http.Handler
	MetricsPath   string // empty disables /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, promhttp.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))
		r.Use(chimid.SetHeader("Content-Type", "application/json"))
		if cfg.IPRateLimit != nil {
			r.Use(cfg.IPRateLimit)
		}

		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireJWT)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", cfg.HabitHandler.List)
				r.Post("/", cfg.HabitHandler.Create)
				r.Get("/{id}", cfg.HabitHandler.Get)
				r.Put("/{id}", cfg.HabitHandler.Update)
				r.Delete("/{id}", cfg.HabitHandler.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", cfg.TaskHandler.List)
				r.Post("/generate", cfg.TaskHandler.Generate)
				r.Post("/{id}/toggle", cfg.TaskHandler.Toggle)
				r.Get("/{id}", cfg.TaskHandler.Get)
				r.Delete("/{id}", cfg.TaskHandler.Delete)
			})

			r.Get("/dashboard", cfg.TaskHandler.Dashboard)
			r.Get("/stats", cfg.StatsHandler.Get)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}
