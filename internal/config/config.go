package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config хранит конфигурацию агента черновиков.
type Config struct {
	Port                  string
	LogLevel              string
	APIBaseURL            string
	APITimeout            time.Duration
	APIToken              string
	APIIncludeCredentials bool
	StoreDriver           string
	StorePath             string
	StoreMaxBytes         int
	RedisURL              string
	DatabaseURL           string
	DraftsSlot            string
	SessionSlot           string
	ReconcileInterval     time.Duration
	DraftsLocking         bool
	LockTTL               time.Duration
	NATSURL               string
	NATSSubject           string
	CORSOrigins           []string
}

// Load читает .env (если он есть) и переменные окружения.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:                  envOr("PORT", "8090"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		APITimeout:            durationOr("API_TIMEOUT", 15*time.Second),
		APIIncludeCredentials: boolOr("API_INCLUDE_CREDENTIALS", true),
		StoreDriver:           strings.ToLower(envOr("STORE_DRIVER", DriverFile)),
		StorePath:             envOr("STORE_PATH", "./data"),
		StoreMaxBytes:         intOr("STORE_MAX_BYTES", 5<<20),
		DraftsSlot:            envOr("DRAFTS_SLOT", "vagasPendentes"),
		SessionSlot:           envOr("SESSION_SLOT", "usuarioLogado"),
		ReconcileInterval:     durationOr("RECONCILE_INTERVAL", 0),
		DraftsLocking:         boolOr("DRAFTS_LOCKING", false),
		LockTTL:               durationOr("DRAFTS_LOCK_TTL", 2*time.Minute),
		NATSSubject:           envOr("NATS_SUBJECT", "recruit.drafts.outcomes"),
		CORSOrigins:           listOr("CORS_ORIGINS", []string{"*"}),
	}

	cfg.APIBaseURL = strings.TrimSpace(os.Getenv("API_BASE_URL"))
	cfg.APIToken = strings.TrimSpace(os.Getenv("API_TOKEN"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.NATSURL = strings.TrimSpace(os.Getenv("NATS_URL"))
	if cfg.StoreDriver == "pq" || cfg.StoreDriver == "postgresql" {
		cfg.StoreDriver = DriverPostgres
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("missing required env vars: API_BASE_URL")
	}
	switch cfg.StoreDriver {
	case DriverMemory, DriverFile:
	case DriverRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("STORE_DRIVER=redis requires REDIS_URL")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	invalid := make([]string, 0, 3)
	if cfg.APITimeout <= 0 {
		invalid = append(invalid, "API_TIMEOUT")
	}
	if cfg.ReconcileInterval < 0 {
		invalid = append(invalid, "RECONCILE_INTERVAL")
	}
	if cfg.LockTTL <= 0 {
		invalid = append(invalid, "DRAFTS_LOCK_TTL")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("durations must be positive: %s", strings.Join(invalid, ", "))
	}
	// One draft costs an insert and an approval call under the lease.
	if cfg.DraftsLocking && cfg.LockTTL <= 2*cfg.APITimeout {
		return Config{}, fmt.Errorf("DRAFTS_LOCK_TTL (%s) must exceed twice API_TIMEOUT (%s)", cfg.LockTTL, cfg.APITimeout)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func intOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOr(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func listOr(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
