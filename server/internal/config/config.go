package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort          = 8080
	DefaultLogLevel          = "info"
	DefaultMaxBodyBytes      = 1 << 20
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultPingInterval      = 54 * time.Second
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics and WebSocket feed listen on
	// (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error. It may be changed while
	// the server is running; see Watch.
	LogLevel string `yaml:"log_level"`

	// MaxBodyBytes caps the size of a POST /snippets request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// ShutdownTimeout bounds how long in-flight requests may take to finish
	// after SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// ReadHeaderTimeout is passed to http.Server.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// WebSocket controls the live snippet feed at /ws/snippets.
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// WebSocketConfig controls the live snippet feed.
type WebSocketConfig struct {
	// Enabled mounts /ws/snippets. Defaults to true.
	Enabled bool `yaml:"enabled"`

	// PingInterval is how often ping frames are sent to each client.
	PingInterval time.Duration `yaml:"ping_interval"`
}

// SlogLevel maps LogLevel to a slog.Level. Validation guarantees the value is
// known; anything else falls back to info.
func (s ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the config file at path. An empty path returns the
// defaults. Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			LogLevel:          DefaultLogLevel,
			MaxBodyBytes:      DefaultMaxBodyBytes,
			ShutdownTimeout:   DefaultShutdownTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WebSocket: WebSocketConfig{
				Enabled:      true,
				PingInterval: DefaultPingInterval,
			},
		},
	}
}

// Validate checks structural constraints on the configuration. Load calls it;
// callers that override fields afterwards (command-line flags) call it again.
func (c *Config) Validate() error {
	s := c.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if s.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.read_header_timeout must not be negative")
	}
	if s.WebSocket.Enabled && s.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("server.websocket.ping_interval must be positive when the feed is enabled")
	}
	return nil
}
