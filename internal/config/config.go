// Package config loads grove settings from defaults, an optional YAML file,
// a .env file and GROVE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dori/grove/internal/db"
	"github.com/dori/grove/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "GROVE"

// Backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds application configuration
type Config struct {
	DataDir          string `mapstructure:"data_dir" validate:"required"`
	Backend          string `mapstructure:"backend" validate:"oneof=sqlite file"`
	QuotaBytes       int    `mapstructure:"quota_bytes" validate:"gte=0"`
	LogLevel         string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Notifications    bool   `mapstructure:"notifications"`
	DefaultGroupName string `mapstructure:"default_group_name" validate:"min=1,max=30"`
	Theme            string `mapstructure:"theme" validate:"omitempty,oneof=light dark"`
}

var validate = validator.New()

// Options select the sources Load reads
type Options struct {
	// ConfigFile overrides the default config file location
	ConfigFile string
	// EnvFile is loaded into the environment when present
	EnvFile string
	// Overrides win over every other source, typically CLI flags
	Overrides map[string]any
}

// DefaultConfigFile returns <user config dir>/grove/config.yaml
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(db.DefaultDataDir(), "config.yaml")
	}
	return filepath.Join(dir, "grove", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", db.DefaultDataDir())
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("quota_bytes", storage.DefaultQuota)
	v.SetDefault("log_level", "info")
	v.SetDefault("notifications", true)
	v.SetDefault("default_group_name", "Main")
	v.SetDefault("theme", "")
}

// Load resolves the configuration. A missing config or env file is not an
// error; a malformed one is.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFile
	if path == "" {
		path = DefaultConfigFile()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// DBPath returns the SQLite database file inside the data dir
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "grove.db")
}

// LogPath returns the log file inside the data dir
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "grove.log")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
