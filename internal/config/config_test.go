package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		k := key
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "PORT", "ENV", "TOKEN_SECRET", "UPLOAD_DIR", "TOKEN_TTL_HOURS")
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebook")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected default upload dir, got %s", cfg.UploadDir)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("expected default TTL 24, got %d", cfg.TokenTTLHours)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t, "DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_TokenSecretRequiredInProduction(t *testing.T) {
	clearEnv(t, "TOKEN_SECRET")
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebook")
	setEnv(t, "ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("expected error when TOKEN_SECRET is missing in production")
	}
}

func TestLoad_DevTokenSecretFallback(t *testing.T) {
	clearEnv(t, "TOKEN_SECRET")
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebook")
	setEnv(t, "ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenSecret == "" {
		t.Error("expected a development fallback token secret")
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebook")
	setEnv(t, "CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebook")
	setEnv(t, "TOKEN_TTL_HOURS", "-1")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-positive TOKEN_TTL_HOURS")
	}
}
