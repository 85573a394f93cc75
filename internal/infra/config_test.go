package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPUTE_BASE_URL", "https://compute.example.com/v2/abc")
	t.Setenv("PORT", "")
	t.Setenv("POLL_MAX_ATTEMPTS", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PollMaxAttempts != 60 {
		t.Fatalf("PollMaxAttempts = %d, want 60", cfg.PollMaxAttempts)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %s, want 5s", cfg.PollInterval)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COMPUTE_BASE_URL", "https://compute.example.com")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRequiresComputeBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPUTE_BASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when COMPUTE_BASE_URL is missing")
	}
}

func TestLoadConfigAllowsMissingComputeAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPUTE_BASE_URL", "https://compute.example.com")
	t.Setenv("COMPUTE_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ComputeAPIKey != "" {
		t.Fatalf("ComputeAPIKey = %q, want empty", cfg.ComputeAPIKey)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPUTE_BASE_URL", "https://compute.example.com")
	t.Setenv("POLL_MAX_ATTEMPTS", "12")
	t.Setenv("POLL_INTERVAL_SECONDS", "2")
	t.Setenv("RESUME_STALE_AFTER_SECONDS", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollMaxAttempts != 12 {
		t.Fatalf("PollMaxAttempts = %d, want 12", cfg.PollMaxAttempts)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("PollInterval = %s, want 2s", cfg.PollInterval)
	}
	if cfg.ResumeStaleAfter != 2*time.Minute {
		t.Fatalf("ResumeStaleAfter = %s, want 2m", cfg.ResumeStaleAfter)
	}
}
