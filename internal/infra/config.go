package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	ComputeBaseURL string
	ComputeAPIKey  string
	ComputeTimeout time.Duration

	PollMaxAttempts int
	PollInterval    time.Duration

	ResumeStaleAfter time.Duration
	ResumeBatchSize  int

	GeoIPDBPath string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. COMPUTE_API_KEY is deliberately not required: a
// missing key surfaces later as an authentication rejection from the backend,
// not as a startup failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ComputeBaseURL:   os.Getenv("COMPUTE_BASE_URL"),
		ComputeAPIKey:    os.Getenv("COMPUTE_API_KEY"),
		ComputeTimeout:   time.Second * time.Duration(getEnvInt("COMPUTE_TIMEOUT_SECONDS", 30)),
		PollMaxAttempts:  getEnvInt("POLL_MAX_ATTEMPTS", 60),
		PollInterval:     time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 5)),
		ResumeStaleAfter: time.Second * time.Duration(getEnvInt("RESUME_STALE_AFTER_SECONDS", 600)),
		ResumeBatchSize:  getEnvInt("RESUME_BATCH_SIZE", 10),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.ComputeBaseURL == "" {
		return nil, fmt.Errorf("COMPUTE_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
