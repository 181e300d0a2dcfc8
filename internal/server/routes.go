package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/project-backend/internal/ratelimit"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.cfg.HTTP.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.cfg.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.HTTP.RequestTimeout))
	}

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.createUserHandler)
		r.Get("/", s.listUsersHandler)
		r.Get("/{id}/full", s.getUserWithTasksHandler)
		r.With(s.RequireAuth).Post("/{id}/tasks/", s.createTaskHandler)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasksHandler)
		r.Group(func(r chi.Router) {
			if s.cfg.Auth.EnforceTaskOwnership {
				r.Use(s.RequireAuth)
			}
			r.Put("/{id}/", s.updateTaskHandler)
			r.Delete("/{id}/", s.deleteTaskHandler)
		})
	})

	r.With(ratelimit.Middleware(s.limiter, s.log)).Post("/token", s.loginHandler)

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Project Management API"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
