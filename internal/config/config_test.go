package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORE_WRITE_ATTEMPTS", "STORE_RETRY_DELAY", "JWT_SECRET_KEY", "AUTH_TOKEN_TTL", "AUTH_PASSWORD_HASHER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.Store.WriteAttempts != 5 || cfg.Store.RetryDelay != 500*time.Millisecond {
		t.Errorf("unexpected retry policy: %d attempts, %s delay", cfg.Store.WriteAttempts, cfg.Store.RetryDelay)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.SecretFallback || cfg.Auth.Secret != DefaultSecret {
		t.Errorf("expected fallback secret to be flagged")
	}
	if cfg.Auth.PasswordHasher != "sha256" {
		t.Errorf("expected sha256 hasher by default, got %s", cfg.Auth.PasswordHasher)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DATA_DIR", "/tmp/marketplace")
	t.Setenv("STORE_RETRY_DELAY", "10ms")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("AUTH_PASSWORD_HASHER", "bcrypt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Store.DataDir != "/tmp/marketplace" {
		t.Errorf("unexpected data dir %s", cfg.Store.DataDir)
	}
	if cfg.Store.RetryDelay != 10*time.Millisecond {
		t.Errorf("unexpected retry delay %s", cfg.Store.RetryDelay)
	}
	if cfg.Auth.SecretFallback || cfg.Auth.Secret != "s3cret" {
		t.Errorf("expected configured secret, got %q (fallback=%v)", cfg.Auth.Secret, cfg.Auth.SecretFallback)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":          "70000",
		"STORE_RETRY_DELAY":    "soon",
		"AUTH_PASSWORD_HASHER": "md5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
