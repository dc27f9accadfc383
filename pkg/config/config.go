package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort  string
	BackendURL  string
	BridgeURL   string
	Environment string
	HTTPTimeout time.Duration

	// Poll cadences. Fixed intervals, no backoff; tune via env.
	MessagePollInterval      time.Duration
	DirectoryPollInterval    time.Duration
	UnreadPollInterval       time.Duration
	NotificationPollInterval time.Duration
	MiddlemanPollInterval    time.Duration
	BroadcastPollInterval    time.Duration
	DashboardPollInterval    time.Duration

	// Fallback when the server omits a cooldown from a middleman response.
	MiddlemanCooldown time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ListenPort:  getEnv("LISTEN_PORT", "7465"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:8080"),
		BridgeURL:   getEnv("BRIDGE_URL", ""),
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),

		MessagePollInterval:      getEnvAsDuration("MESSAGE_POLL_INTERVAL", 5*time.Second),
		DirectoryPollInterval:    getEnvAsDuration("DIRECTORY_POLL_INTERVAL", 10*time.Second),
		UnreadPollInterval:       getEnvAsDuration("UNREAD_POLL_INTERVAL", 10*time.Second),
		NotificationPollInterval: getEnvAsDuration("NOTIFICATION_POLL_INTERVAL", 3*time.Second),
		MiddlemanPollInterval:    getEnvAsDuration("MIDDLEMAN_POLL_INTERVAL", 5*time.Second),
		BroadcastPollInterval:    getEnvAsDuration("BROADCAST_POLL_INTERVAL", 2*time.Second),
		DashboardPollInterval:    getEnvAsDuration("DASHBOARD_POLL_INTERVAL", 15*time.Second),

		MiddlemanCooldown: getEnvAsDuration("MIDDLEMAN_COOLDOWN", 20*time.Minute),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
