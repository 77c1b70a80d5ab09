package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds everything the agent reads from the environment.
// main loads .env via godotenv autoload before this runs.

type Settings struct {
	Environment string
	LogLevel    string

	DefaultTenant string

	// Intake queue tuning.
	DebounceWindow time.Duration
	LockDuration   time.Duration
	MaxAttempts    int
	WorkerCount    int
	ClaimInterval  time.Duration

	// Sessions with no activity past this are eligible for follow-up.
	StaleSessionAfter time.Duration

	// Debug HTTP server.
	HTTPPort int

	QueueTable    string
	SessionsTable string
	CatalogTable  string
}

// Load reads settings from env vars, with the defaults the agent ships
// with (3s debounce, 3 attempts, 30s lease).
func Load() Settings {
	return Settings{
		Environment:       getenvDefault("ENVIRONMENT", "development"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		DefaultTenant:     getenvDefault("DEFAULT_TENANT", "marcio-lanches"),
		DebounceWindow:    time.Duration(getenvInt("MESSAGE_DEBOUNCE_SECONDS", 3)) * time.Second,
		LockDuration:      time.Duration(getenvInt("QUEUE_LOCK_SECONDS", 30)) * time.Second,
		MaxAttempts:       getenvInt("QUEUE_MAX_ATTEMPTS", 3),
		WorkerCount:       getenvInt("WORKER_COUNT", 4),
		ClaimInterval:     time.Duration(getenvInt("QUEUE_CLAIM_INTERVAL_MS", 500)) * time.Millisecond,
		StaleSessionAfter: time.Duration(getenvInt("FOLLOWUP_TIMEOUT_MINUTES", 10)) * time.Minute,
		HTTPPort:          getenvInt("HTTP_PORT", 8080),
		QueueTable:        getenvDefault("QUEUE_TABLE", "queue_entries"),
		SessionsTable:     getenvDefault("SESSIONS_TABLE", "sessions"),
		CatalogTable:      getenvDefault("CATALOG_TABLE", "menu_index"),
	}
}

// IsProduction reports whether the agent runs with production logging.
func (s Settings) IsProduction() bool { return s.Environment == "production" }

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
