package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds relay runtime configuration.
type Config struct {
	Addr        string // listen address, e.g. :8080
	Env         string // development or production
	TokenSecret string // HMAC secret for bearer token verification
	KeyDBPath   string // bbolt path for the key directory; empty = in-memory

	// Websocket tuning.
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongTimeout  time.Duration
}

// Load reads configuration from environment variables. In development it
// loads from a .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         getEnv("RELAY_ADDR", ":8080"),
		Env:          getEnv("ENV", "development"),
		TokenSecret:  os.Getenv("RELAY_TOKEN_SECRET"),
		KeyDBPath:    os.Getenv("RELAY_KEYDB_PATH"),
		WriteTimeout: getDuration("RELAY_WRITE_TIMEOUT", 10*time.Second),
		PingInterval: getDuration("RELAY_PING_INTERVAL", 30*time.Second),
		PongTimeout:  getDuration("RELAY_PONG_TIMEOUT", 60*time.Second),
	}

	if cfg.Env == "production" && cfg.TokenSecret == "" {
		panic("RELAY_TOKEN_SECRET is required in production")
	}
	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
