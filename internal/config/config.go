package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the local-development fallback for the coordination
// API base address — the only externally configurable parameter the
// client core depends on.
const DefaultAPIURL = "http://localhost:8000"

// Config holds the portal's deployment configuration.
type Config struct {
	API     APIConfig
	Server  ServerConfig
	Session SessionConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// APIConfig points at the remote coordination API.
type APIConfig struct {
	BaseURL string
}

// ServerConfig is the local daemon's listen address.
type ServerConfig struct {
	Host string
	Port int
}

// SessionConfig selects the session-store backend.
type SessionConfig struct {
	Backend string // file, memory or redis
	File    string
}

// RedisConfig is used when the session backend is redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CORSConfig allows the browser shell's origin.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig controls zerolog.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment, with a best-effort
// .env file first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_URL", DefaultAPIURL),
		},
		Server: ServerConfig{
			Host: getEnv("PORTAL_HOST", "127.0.0.1"),
			Port: getEnvInt("PORTAL_PORT", 8090),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "file"),
			File:    getEnv("SESSION_FILE", defaultSessionFile()),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
	}

	return cfg, nil
}

// Validate rejects configurations the daemon cannot start with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORTAL_PORT: %d", c.Server.Port)
	}
	switch c.Session.Backend {
	case "file":
		if c.Session.File == "" {
			return fmt.Errorf("SESSION_FILE must not be empty for the file backend")
		}
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND: %s", c.Session.Backend)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "portal-session.json"
	}
	return home + "/.hospital-portal/session.json"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitEnv(key, fallback string) []string {
	v := getEnv(key, fallback)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
