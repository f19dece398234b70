// Package server provides configuration helpers that define runtime defaults,
// read environment overrides, and sanitize out-of-range values.
package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// Config holds the server settings. Values come from the environment via
// struct tags; Sanitize clamps anything nonsensical back to a usable value.
type Config struct {
	Addr             string        `env:"SERVER_ADDR,default=:8080"`
	AllowedOrigins   string        `env:"ALLOWED_ORIGINS,default=http://localhost:8080"`
	MaxMessageLength int           `env:"MAX_MESSAGE_LENGTH,default=500"`
	RoomHistoryLimit int           `env:"ROOM_HISTORY_LIMIT,default=50"`
	SessionGrace     time.Duration `env:"SESSION_GRACE,default=30s"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST,default=10"`
	RateLimitRefill  time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL,default=1s"`
	SendBufferSize   int           `env:"SEND_BUFFER_SIZE,default=256"`
	MaxFrameSize     int64         `env:"MAX_FRAME_SIZE,default=4096"`
	RoomCatalogPath  string        `env:"ROOM_CATALOG_PATH"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize replaces out-of-range values with defaults.
func (c *Config) Sanitize() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = 500
	}
	if c.RoomHistoryLimit <= 0 {
		c.RoomHistoryLimit = 50
	}
	if c.SessionGrace <= 0 {
		c.SessionGrace = 30 * time.Second
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 10
	}
	if c.RateLimitRefill <= 0 {
		c.RateLimitRefill = time.Second
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = 256
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = 4096
	}
}

// Origins returns the configured allow-list as a slice. A single "*" entry
// allows any origin.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// SlogLevel maps the configured log level string onto a slog.Level,
// defaulting to Info for anything unrecognized.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
