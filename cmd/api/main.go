package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/auth"
	"github.com/Tomlord1122/project-backend/internal/config"
	"github.com/Tomlord1122/project-backend/internal/database"
	"github.com/Tomlord1122/project-backend/internal/logger"
	"github.com/Tomlord1122/project-backend/internal/ratelimit"
	"github.com/Tomlord1122/project-backend/internal/repository"
	"github.com/Tomlord1122/project-backend/internal/server"
	"github.com/Tomlord1122/project-backend/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, rdb *redis.Client, log *logrus.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("close redis client")
		}
	}

	if err := dbService.Close(); err != nil {
		log.WithError(err).Error("close database connection pool")
	} else {
		log.Info("database connection pool closed")
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format})

	// 1. Database
	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("initialize database")
	}
	if cfg.Database.AutoMigrate {
		log.Info("running database auto-migration")
		if err := dbService.Migrate(); err != nil {
			log.WithError(err).Fatal("auto-migrate database")
		}
	}
	gormDB := dbService.GetDB()

	// 2. Optional Redis for login throttling
	var limiter *ratelimit.Limiter
	rdb, err := ratelimit.NewRedisClient(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, login rate limiting disabled")
	} else if rdb != nil && cfg.Auth.LoginRateLimit > 0 {
		limiter = ratelimit.NewLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	}

	// 3. Repositories and auth primitives
	userRepo := repository.NewGormUserRepository(gormDB)
	taskRepo := repository.NewGormTaskRepository(gormDB)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, auth.WithLeeway(cfg.Auth.TokenLeeway))
	if err != nil {
		log.WithError(err).Fatal("initialize token service")
	}

	// 4. Services
	authService, err := service.NewAuthService(userRepo, hasher, tokens, log)
	if err != nil {
		log.WithError(err).Fatal("initialize auth service")
	}
	userService := service.NewUserService(userRepo, hasher, log)
	taskService := service.NewTaskService(taskRepo, cfg.Auth.EnforceTaskOwnership, log)

	if !cfg.Auth.EnforceTaskOwnership {
		log.Warn("task ownership is not enforced: any caller may update or delete any task")
	}

	// 5. HTTP server
	apiServer := server.NewServer(cfg, server.Dependencies{
		UserService: userService,
		TaskService: taskService,
		AuthService: authService,
		DB:          dbService,
		Limiter:     limiter,
		Log:         log,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, rdb, log, done)

	log.WithFields(logrus.Fields{"addr": apiServer.Addr, "env": cfg.Environment}).Info("starting server")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("http server ListenAndServe")
		os.Exit(1)
	}

	<-done
	log.Info("graceful shutdown complete")
}
