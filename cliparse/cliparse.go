// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/votedesk/db"
)

type Config struct {
	Port           int    `yaml:"port"           envconfig:"PORT"`
	BindAddr       string `yaml:"bindAddr"       envconfig:"BIND_ADDR"`
	DatabaseURL    string `yaml:"databaseUrl"    envconfig:"DATABASE_URL"`
	DatabaseType   string `yaml:"databaseType"   envconfig:"DATABASE_TYPE"`
	LogLevel       string `yaml:"logLevel"       envconfig:"LOG_LEVEL"`
	LogFormat      string `yaml:"logFormat"      envconfig:"LOG_FORMAT"`
	MetricsEnabled bool   `yaml:"metricsEnabled" envconfig:"METRICS_ENABLED"`
	ConfigFile     string `yaml:"-"              envconfig:"VOTEDESK_CONFIG"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:           3318,
		BindAddr:       "127.0.0.1",
		DatabaseURL:    "votedesk.db",
		DatabaseType:   db.TypeSQLite,
		LogLevel:       "info",
		LogFormat:      "text",
		MetricsEnabled: true,
	}
}

// Flag names
const (
	FlagConfig       = "config"
	FlagPort         = "port"
	FlagBindAddr     = "bind"
	FlagDatabaseURL  = "database-url"
	FlagDatabaseType = "database-type"
	FlagLogLevel     = "log-level"
	FlagLogFormat    = "log-format"
	FlagMetrics      = "metrics"
)

// RegisterFlags adds the configuration flags to fs. Flag values only take
// effect when set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagConfig, "", "YAML config file")
	fs.IntP(FlagPort, "p", d.Port, "Server port")
	fs.String(FlagBindAddr, d.BindAddr, "Listen address")
	fs.StringP(FlagDatabaseURL, "d", d.DatabaseURL, "Database URL or sqlite file path")
	fs.StringP(FlagDatabaseType, "t", d.DatabaseType, "Database type (sqlite or postgres)")
	fs.String(FlagLogLevel, d.LogLevel, "Log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, d.LogFormat, "Log format (text or json)")
	fs.Bool(FlagMetrics, d.MetricsEnabled, "Serve Prometheus metrics on /metrics")
}

// Load builds the configuration from defaults, the YAML file, .env, the
// environment and finally any flags set on fs. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg := Defaults()

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env: %w", err)
	}

	path := os.Getenv("VOTEDESK_CONFIG")
	if fs != nil && fs.Changed(FlagConfig) {
		path, _ = fs.GetString(FlagConfig)
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = path
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}

	if fs != nil {
		if err := applyFlags(&cfg, fs); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseFlags parses args into a fresh flag set and loads the configuration.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("votedesk", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Load(fs)
}

func loadFile(cfg *Config, path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}
	set(FlagPort, func() (e error) { cfg.Port, e = fs.GetInt(FlagPort); return })
	set(FlagBindAddr, func() (e error) { cfg.BindAddr, e = fs.GetString(FlagBindAddr); return })
	set(FlagDatabaseURL, func() (e error) { cfg.DatabaseURL, e = fs.GetString(FlagDatabaseURL); return })
	set(FlagDatabaseType, func() (e error) { cfg.DatabaseType, e = fs.GetString(FlagDatabaseType); return })
	set(FlagLogLevel, func() (e error) { cfg.LogLevel, e = fs.GetString(FlagLogLevel); return })
	set(FlagLogFormat, func() (e error) { cfg.LogFormat, e = fs.GetString(FlagLogFormat); return })
	set(FlagMetrics, func() (e error) { cfg.MetricsEnabled, e = fs.GetBool(FlagMetrics); return })
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	return nil
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch strings.ToLower(c.DatabaseType) {
	case db.TypeSQLite, db.TypePostgres, "postgresql":
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
