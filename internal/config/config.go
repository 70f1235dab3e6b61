package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "https://news.kinoimblauensalon.de/api"
	DefaultSchedule  = "@every 1h"
	DefaultRedisAddr = "127.0.0.1:6379"
	DefaultPort      = "8080"
)

// monitoredEmails is the comma-separated list of subscribers to check.
// It is set at build time via ldflags, e.g.
// -X listmonk-resubscriber/internal/config.monitoredEmails=a@x.de,b@x.de
var monitoredEmails = "studierende@hfg-karlsruhe.de"

// Config holds everything a run needs. It is read-only once loaded.
type Config struct {
	BaseURL           string
	Token             string
	Emails            []string
	DryRun            bool
	RequestsPerSecond float64

	Schedule     string
	RedisAddr    string
	Port         string
	TriggerToken string
}

// LoadEnv loads variables from a local .env file. Callers treat an error as
// "no .env file" and fall back to the process environment.
func LoadEnv() error {
	return godotenv.Load()
}

// Load builds a Config from the process environment.
func Load() Config {
	return Config{
		BaseURL:           strings.TrimRight(GetEnv("LISTMONK_URL", DefaultBaseURL), "/"),
		Token:             os.Getenv("LISTMONK_TOKEN"),
		Emails:            MonitoredEmails(),
		DryRun:            GetEnvBool("RESUBSCRIBE_DRY_RUN", false),
		RequestsPerSecond: GetEnvFloat("LISTMONK_RPS", 0),
		Schedule:          GetEnv("RESUBSCRIBE_SCHEDULE", DefaultSchedule),
		RedisAddr:         GetEnv("REDIS_ADDR", DefaultRedisAddr),
		Port:              GetEnv("PORT", DefaultPort),
		TriggerToken:      os.Getenv("TRIGGER_TOKEN"),
	}
}

// MonitoredEmails returns the build-time list of emails to check.
func MonitoredEmails() []string {
	return splitList(monitoredEmails)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default value
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default value
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
