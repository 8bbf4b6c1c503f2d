package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8090" || cfg.StoreDriver != DriverFile || cfg.DraftsSlot != "vagasPendentes" || cfg.SessionSlot != "usuarioLogado" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.APITimeout != 15*time.Second || !cfg.APIIncludeCredentials || cfg.ReconcileInterval != 0 {
		t.Fatalf("unexpected api defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "API_BASE_URL") {
		t.Fatalf("expected missing base url error, got %v", err)
	}
}

func TestLoadStoreDriverValidation(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")

	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected redis url error")
	}

	t.Setenv("STORE_DRIVER", "postgresql")
	t.Setenv("DATABASE_URL", "postgres://localhost/recruit")
	cfg, err := Load()
	if err != nil || cfg.StoreDriver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q err %v", cfg.StoreDriver, err)
	}

	t.Setenv("STORE_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_INCLUDE_CREDENTIALS", "off")
	t.Setenv("RECONCILE_INTERVAL", "1m")
	t.Setenv("DRAFTS_LOCKING", "yes")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local ,")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APITimeout != 3*time.Second || cfg.APIIncludeCredentials || cfg.ReconcileInterval != time.Minute || !cfg.DraftsLocking {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.local" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("API_TIMEOUT", "0s")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "API_TIMEOUT") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestLoadRejectsLockTTLShorterThanItem(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("API_TIMEOUT", "30s")
	t.Setenv("DRAFTS_LOCKING", "true")
	t.Setenv("DRAFTS_LOCK_TTL", "45s")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DRAFTS_LOCK_TTL") {
		t.Fatalf("expected lock ttl error, got %v", err)
	}
}
