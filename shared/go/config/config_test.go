package config

import (
	"strings"
	"testing"
	"time"

	"useraccounts/internal/apperr"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORE_DRIVER", "STORE_TIMEOUT", "DATABASE_URL", "DB_HOST", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_PORT", "DB_SSLMODE", "MONGO_URL", "MONGO_DATABASE", "PORT", "HOST",
		"TOKEN_TTL", "BCRYPT_COST", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
		"LOG_FILE", "LOG_MAX_SIZE_MB",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/accounts?sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Errorf("store timeout = %v", cfg.Store.Timeout)
	}
	if cfg.Security.TokenTTL != 24*time.Hour || cfg.Security.BcryptCost != 10 {
		t.Errorf("security = %+v", cfg.Security)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" || cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected development CORS defaults")
	}
}

func TestLoadBuildsDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "accounts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "postgresql://app:pw@pg:5432/accounts?sslmode=disable"
	if cfg.Store.Database.URL != want {
		t.Fatalf("URL = %q, want %q", cfg.Store.Database.URL, want)
	}
}

func TestLoadMemoryNeedsNoDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(cfg.CORS.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("origins = %q", got)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "trace")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperr.KindOf(err) != apperr.Config {
		t.Fatalf("kind = %v", apperr.KindOf(err))
	}
	for _, want := range []string{"JWT_SECRET must be at least 16", "STORE_DRIVER", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"TOKEN_TTL", "a day"},
		{"BCRYPT_COST", "ten"},
		{"STORE_TIMEOUT", "soon"},
		{"JWT_SECRET", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); apperr.KindOf(err) != apperr.Config {
				t.Fatalf("Load() with %s=%q: %v", tt.key, tt.value, err)
			}
		})
	}
}
