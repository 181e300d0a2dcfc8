package server

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/config"
	"github.com/Tomlord1122/project-backend/internal/database"
	"github.com/Tomlord1122/project-backend/internal/ratelimit"
	"github.com/Tomlord1122/project-backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer needs. They are built
// once in main and shared by every request.
type Dependencies struct {
	UserService service.UserService
	TaskService service.TaskService
	AuthService service.AuthService
	DB          database.Service
	Limiter     *ratelimit.Limiter
	Log         *logrus.Logger
}

type Server struct {
	cfg         *config.Config
	userService service.UserService
	taskService service.TaskService
	authService service.AuthService
	db          database.Service
	limiter     *ratelimit.Limiter
	log         *logrus.Logger
}

func New(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		cfg:         cfg,
		userService: deps.UserService,
		taskService: deps.TaskService,
		authService: deps.AuthService,
		db:          deps.DB,
		limiter:     deps.Limiter,
		log:         deps.Log,
	}
}

// NewServer builds the *http.Server listening on the configured port.
func NewServer(cfg *config.Config, deps Dependencies) *http.Server {
	appServer := New(cfg, deps)

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}
