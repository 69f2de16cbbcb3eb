// Package config loads regform settings from defaults, an optional YAML or
// TOML file, and REGFORM_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regform/components/countries"
)

// EnvFile names the variable that points at a config file when no path is
// given explicitly.
const EnvFile = "REGFORM_CONFIG"

// Config is the full application configuration.
type Config struct {
	Server    Server    `yaml:"server" toml:"server"`
	Countries Countries `yaml:"countries" toml:"countries"`
	Log       Log       `yaml:"log" toml:"log"`
	Theme     Theme     `yaml:"theme" toml:"theme"`
}

// Server configures the HTTP surface.
type Server struct {
	// Addr like ":8080". ENV: REGFORM_SERVER_ADDR
	Addr string `yaml:"addr" toml:"addr" env:"REGFORM_SERVER_ADDR"`
	// ReadTimeout bounds reading a request, headers included.
	ReadTimeout time.Duration `yaml:"read_timeout" toml:"read_timeout" env:"REGFORM_SERVER_READ_TIMEOUT"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"REGFORM_SERVER_SHUTDOWN_TIMEOUT"`
}

// Countries configures the country loader.
type Countries struct {
	Endpoint    string        `yaml:"endpoint" toml:"endpoint" env:"REGFORM_COUNTRIES_ENDPOINT"`
	Timeout     time.Duration `yaml:"timeout" toml:"timeout" env:"REGFORM_COUNTRIES_TIMEOUT"`
	SearchLimit int           `yaml:"search_limit" toml:"search_limit" env:"REGFORM_COUNTRIES_SEARCH_LIMIT"`
}

// Log configures the process logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level" env:"REGFORM_LOG_LEVEL"`
	// Format is "text" or "json".
	Format string `yaml:"format" toml:"format" env:"REGFORM_LOG_FORMAT"`
}

// Theme selects the page theme.
type Theme struct {
	Name    string `yaml:"name" toml:"name" env:"REGFORM_THEME_NAME"`
	Variant string `yaml:"variant" toml:"variant" env:"REGFORM_THEME_VARIANT"`

	// TemplatesDir overrides embedded page templates with files on disk.
	TemplatesDir string `yaml:"templates_dir" toml:"templates_dir" env:"REGFORM_THEME_TEMPLATES_DIR"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Countries: Countries{
			Endpoint:    countries.DefaultEndpoint,
			Timeout:     10 * time.Second,
			SearchLimit: 300,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Theme: Theme{
			Name: "regform",
		},
	}
}

// Load builds the configuration. path may be empty, in which case EnvFile is
// consulted; a missing file is only an error when a path was named.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes path over cfg. The format follows the file extension.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file type %q", ext)
	}
	return nil
}

// ApplyEnv overrides cfg with any REGFORM_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: decode env: %w", err)
	}
	return nil
}

// Validate rejects settings the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout < 0 || c.Server.ShutdownTimeout < 0 || c.Countries.Timeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if strings.TrimSpace(c.Countries.Endpoint) == "" {
		errs = append(errs, errors.New("countries.endpoint is required"))
	}
	if c.Countries.SearchLimit < 0 {
		errs = append(errs, errors.New("countries.search_limit must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if dir := c.Theme.TemplatesDir; dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("theme.templates_dir %q is not a directory", dir))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(l.Level) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
