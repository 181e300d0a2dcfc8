package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Tomlord1122/project-backend/internal/config"
	"github.com/Tomlord1122/project-backend/internal/domain"
)

// Service owns the pooled connection to Postgres. It is created once at
// process start and closed on shutdown.
type Service interface {
	Health() map[string]string
	Migrate() error
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// New opens the GORM connection described by cfg and applies pool settings.
func New(cfg config.DatabaseConfig, log *logrus.Logger) (Service, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &service{db: db, log: log}, nil
}

// NewFromDB wraps an already opened GORM handle.
func NewFromDB(db *gorm.DB, log *logrus.Logger) Service {
	return &service{db: db, log: log}
}

func newGormLogger(log *logrus.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the users and tasks tables, including the
// unique email index and the tasks.owner_id foreign key.
func (s *service) Migrate() error {
	if err := s.db.AutoMigrate(&domain.User{}, &domain.Task{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Health pings the pool and reports its statistics. The cause of a failed
// ping is logged, never returned, since /health is public.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.log.WithError(err).Warn("database health check failed")
		return map[string]string{"status": "down", "error": "database unavailable"}
	}

	st := sqlDB.Stats()
	return map[string]string{
		"status":              "up",
		"message":             poolMessage(st),
		"open_connections":    strconv.Itoa(st.OpenConnections),
		"in_use":              strconv.Itoa(st.InUse),
		"idle":                strconv.Itoa(st.Idle),
		"wait_count":          strconv.FormatInt(st.WaitCount, 10),
		"wait_duration":       st.WaitDuration.String(),
		"max_idle_closed":     strconv.FormatInt(st.MaxIdleClosed, 10),
		"max_lifetime_closed": strconv.FormatInt(st.MaxLifetimeClosed, 10),
	}
}

// poolMessage summarises the most pressing pool condition, if any.
func poolMessage(st sql.DBStats) string {
	half := int64(st.OpenConnections) / 2
	switch {
	case st.MaxLifetimeClosed > half:
		return "connections are recycled by max lifetime, consider raising DB_CONN_MAX_LIFETIME"
	case st.MaxIdleClosed > half && st.OpenConnections > st.Idle:
		return "idle connections are closed often, consider raising DB_MAX_IDLE_CONNS"
	case st.WaitCount > 1000:
		return "queries are waiting for free connections"
	case st.OpenConnections > 80:
		return "the database is under heavy load"
	default:
		return "healthy"
	}
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB for closing: %w", err)
	}
	s.log.Info("closing database connection pool")
	return sqlDB.Close()
}
