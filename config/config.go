package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Quiz     QuizConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	// ClientIdleMinutes is how long in-memory client state survives without a request.
	ClientIdleMinutes  int
	ClientSweepMinutes int
	// CORSAllowedOrigins is "*" or a comma-separated list; empty disables CORS.
	CORSAllowedOrigins string
}

// ClientIdle is the idle bound of in-memory client state.
func (c ServerConfig) ClientIdle() time.Duration {
	return time.Duration(c.ClientIdleMinutes) * time.Minute
}

// ClientSweep is how often idle clients are dropped.
func (c ServerConfig) ClientSweep() time.Duration {
	return time.Duration(c.ClientSweepMinutes) * time.Minute
}

// APIConfig points at the classroom REST backend.
type APIConfig struct {
	BaseURL   string // e.g. http://127.0.0.1:8000/api
	TimeoutMS int
}

// Timeout returns the fixed upper bound on a backend call.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// SessionConfig selects the durable client storage driver.
type SessionConfig struct {
	Storage  string // memory, redis or postgres
	TTLHours int    // redis only; 0 keeps records until logout
}

// CookieConfig controls the signed client identity cookie.
type CookieConfig struct {
	Name    string
	Secret  string
	MaxDays int
	Secure  bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/eureka?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QuizConfig holds quiz-taking policy switches.
type QuizConfig struct {
	LockAfterGraded bool
	ReportIntegrity bool
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			ClientIdleMinutes:  getEnvInt("CLIENT_IDLE_MINUTES", 120),
			ClientSweepMinutes: getEnvInt("CLIENT_SWEEP_MINUTES", 5),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		},
		API: APIConfig{
			BaseURL:   strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000/api"), "/"),
			TimeoutMS: getEnvInt("API_TIMEOUT_MS", 5000),
		},
		Session: SessionConfig{
			Storage:  strings.ToLower(getEnv("SESSION_STORAGE", "memory")),
			TTLHours: getEnvInt("SESSION_TTL_HOURS", 0),
		},
		Cookie: CookieConfig{
			Name:    getEnv("CLIENT_COOKIE_NAME", "eureka_client"),
			Secret:  getEnv("CLIENT_COOKIE_SECRET", "change-me-in-production"),
			MaxDays: getEnvInt("CLIENT_COOKIE_DAYS", 30),
			Secure:  getEnvBool("CLIENT_COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "eureka"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Quiz: QuizConfig{
			LockAfterGraded: getEnvBool("QUIZ_LOCK_AFTER_GRADED", false),
			ReportIntegrity: getEnvBool("QUIZ_REPORT_INTEGRITY", false),
		},
	}

	switch cfg.Session.Storage {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unknown SESSION_STORAGE %q", cfg.Session.Storage)
	}
	if cfg.Server.ClientSweepMinutes <= 0 || cfg.Server.ClientIdleMinutes <= 0 {
		return nil, fmt.Errorf("CLIENT_IDLE_MINUTES and CLIENT_SWEEP_MINUTES must be positive")
	}
	if cfg.API.TimeoutMS <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT_MS must be positive, got %d", cfg.API.TimeoutMS)
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
