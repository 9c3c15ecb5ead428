package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/parceldesk/courier-client/internal/booking"
)

// Session backend selectors.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Policy  booking.Policy
	Logger  LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the booking backend API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig selects where the session record is persisted.
type SessionConfig struct {
	Backend  string
	FilePath string
	RedisKey string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	defaults := booking.DefaultPolicy()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "courier-booking-client"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "4200"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 20),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", SessionBackendFile),
			FilePath: getEnv("SESSION_FILE_PATH", defaultSessionPath()),
			RedisKey: getEnv("SESSION_REDIS_KEY", "courier:session"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Policy: booking.Policy{
			PinLength:       getEnvAsInt("POLICY_PIN_LENGTH", defaults.PinLength),
			MobileLength:    getEnvAsInt("POLICY_MOBILE_LENGTH", defaults.MobileLength),
			MaxWeightInGram: getEnvAsInt("POLICY_MAX_WEIGHT_GRAMS", defaults.MaxWeightInGram),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the backend call timeout duration.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courier-client/session.json"
	}
	return home + "/.courier-client/session.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
