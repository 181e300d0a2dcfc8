package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config aggregates all runtime settings. It is built once at process start
// and treated as read-only afterwards.
type Config struct {
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the
	// socket address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type DatabaseConfig struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	Schema          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// AuthConfig holds the token signing secret. Never log it.
type AuthConfig struct {
	JWTSecret            string
	AccessTokenTTL       time.Duration
	TokenLeeway          time.Duration
	BcryptCost           int
	EnforceTaskOwnership bool
	LoginRateLimit       int
	LoginRateWindow      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults. Malformed values are reported, not ignored.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Environment: env.String("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Port:              env.Int("PORT", 8080),
			ReadTimeout:       env.Duration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      env.Duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       env.Duration("SERVER_IDLE_TIMEOUT", time.Minute),
			RequestTimeout:    env.Duration("REQUEST_TIMEOUT", 5*time.Second),
			TrustProxyHeaders: env.Bool("TRUST_PROXY_HEADERS", false),
		},
		Database: DatabaseConfig{
			Host:            env.String("BLUEPRINT_DB_HOST", "localhost"),
			Port:            env.String("BLUEPRINT_DB_PORT", "5432"),
			Name:            env.String("BLUEPRINT_DB_DATABASE", "project"),
			User:            env.String("BLUEPRINT_DB_USERNAME", "postgres"),
			Password:        os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Schema:          os.Getenv("BLUEPRINT_DB_SCHEMA"),
			MaxOpenConns:    env.Int("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    env.Int("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: env.Duration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     env.Bool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			AccessTokenTTL:       env.Duration("ACCESS_TOKEN_TTL", 30*time.Minute),
			TokenLeeway:          env.Duration("TOKEN_LEEWAY", 0),
			BcryptCost:           env.Int("BCRYPT_COST", bcrypt.DefaultCost),
			EnforceTaskOwnership: env.Bool("ENFORCE_TASK_OWNERSHIP", false),
			LoginRateLimit:       env.Int("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow:      env.Duration("LOGIN_RATE_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       env.Int("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level:  env.String("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "json"
		if cfg.IsDevelopment() {
			cfg.Logger.Format = "text"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used to start the server.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", c.Auth.AccessTokenTTL)
	}
	if c.Auth.TokenLeeway < 0 {
		return fmt.Errorf("config: TOKEN_LEEWAY must not be negative, got %s", c.Auth.TokenLeeway)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Auth.LoginRateLimit > 0 && c.Auth.LoginRateWindow <= 0 {
		return fmt.Errorf("config: LOGIN_RATE_WINDOW must be positive when LOGIN_RATE_LIMIT is set, got %s", c.Auth.LoginRateWindow)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.HTTP.Port)
	}
	return nil
}

// DSN builds the key/value connection string understood by pgx.
func (c DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
	if c.Schema != "" {
		dsn += " search_path=" + c.Schema
	}
	return dsn
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

// IsDevelopment reports whether the server runs in a local development setup.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// envReader reads typed environment variables and remembers every value
// it could not parse.
type envReader struct {
	errs []error
}

func (e *envReader) String(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func (e *envReader) Int(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		e.fail(key, val, "an integer")
		return fallback
	}
	return parsed
}

func (e *envReader) Bool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		e.fail(key, val, "a boolean")
		return fallback
	}
	return parsed
}

// Duration accepts Go duration syntax ("90s", "15m") or a bare number of
// seconds.
func (e *envReader) Duration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second
	}
	e.fail(key, val, "a duration")
	return fallback
}

func (e *envReader) fail(key, val, want string) {
	e.errs = append(e.errs, fmt.Errorf("config: %s=%q is not %s", key, val, want))
}

func (e *envReader) Err() error {
	return errors.Join(e.errs...)
}
