package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsForSQLite(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , http://b.test,")
	t.Setenv("TOKEN_TTL_HOURS", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "./data/qwirkle.db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret == "" {
		t.Error("development secret not filled in")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.TokenTTL != 14*24*time.Hour {
		t.Errorf("token ttl = %v, want default", cfg.TokenTTL)
	}
	if cfg.Archive.Enabled() {
		t.Error("archive enabled without a bucket")
	}
}

func TestLoadRequiresSecretsInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/qwirkle")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing JWT_SECRET error")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "s3cret")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
