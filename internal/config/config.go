// Package config loads service configuration from a YAML file and the
// environment. Environment variables win over the file, which wins over the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lecternlabs/lectern/pkg/domain"
	"github.com/lecternlabs/lectern/pkg/registry"
)

// DefaultPath is where Load looks when no config file is given. A missing
// file at this path is not an error.
const DefaultPath = "lectern.yaml"

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the listener.
type ServerConfig struct {
	Host string `yaml:"host" env:"LECTERN_HOST"`
	Port int    `yaml:"port" env:"LECTERN_PORT"`
}

// Addr renders the host and port as a dialable address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SessionConfig controls session lifetime and size limits.
type SessionConfig struct {
	TTL           Duration `yaml:"ttl" env:"LECTERN_SESSION_TTL"`
	SweepInterval Duration `yaml:"sweep_interval" env:"LECTERN_SWEEP_INTERVAL"`
	MaxIDLength   int      `yaml:"max_id_length" env:"LECTERN_MAX_ID_LENGTH"`
	MaxPageBytes  int      `yaml:"max_page_bytes" env:"LECTERN_MAX_PAGE_BYTES"`
}

// Limits converts the configured bounds into domain limits.
func (c SessionConfig) Limits() domain.Limits {
	return domain.Limits{
		MaxIDLength:  c.MaxIDLength,
		MaxPageBytes: c.MaxPageBytes,
	}.Normalized()
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LECTERN_LOG_LEVEL"`
}

// Duration wraps time.Duration so "30m" style strings work in YAML and
// environment values alike.
type Duration time.Duration

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// UnmarshalText implements encoding.TextUnmarshaler, which is how env
// parsing picks the type up.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Session: SessionConfig{
			TTL:           Duration(registry.DefaultSessionTTL),
			SweepInterval: Duration(registry.DefaultSweepInterval),
			MaxIDLength:   domain.DefaultLimits.MaxIDLength,
			MaxPageBytes:  domain.DefaultLimits.MaxPageBytes,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then the
// environment. An empty path means DefaultPath, and only an explicitly given
// file is required to exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.Session.SweepInterval)
	}
	if c.Session.MaxIDLength <= 0 {
		return fmt.Errorf("max id length must be positive, got %d", c.Session.MaxIDLength)
	}
	if c.Session.MaxPageBytes <= 0 {
		return fmt.Errorf("max page bytes must be positive, got %d", c.Session.MaxPageBytes)
	}
	return nil
}
