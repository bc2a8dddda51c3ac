// Package config loads the CLI configuration from defaults, an optional
// aurora.yaml, a .env file, AURORA_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/aurora/internal/platform"
)

// EnvPrefix prefixes every environment variable (AURORA_DATA_DIR, ...).
const EnvPrefix = "AURORA"

// Config holds all configuration for the CLI.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// DataConfig selects where and how slots are stored.
type DataConfig struct {
	Dir       string        `mapstructure:"dir"`
	Backend   string        `mapstructure:"backend"`
	Format    string        `mapstructure:"format"`
	Debounce  time.Duration `mapstructure:"debounce"`
	DevSafety bool          `mapstructure:"dev_safety"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"data":       "data.dir",
	"backend":    "data.backend",
	"format":     "data.format",
	"debounce":   "data.debounce",
	"dev-safety": "data.dev_safety",
	"log-level":  "logger.level",
	"log-format": "logger.format",
}

// Load builds the configuration. configFile may be empty, in which case
// aurora.yaml is looked up in the working directory and silently skipped
// when absent. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("aurora")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", platform.DefaultDataDir())
	v.SetDefault("data.backend", platform.AdapterFS)
	v.SetDefault("data.format", "json")
	v.SetDefault("data.debounce", "500ms")
	v.SetDefault("data.dev_safety", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
}

func validateConfig(cfg *Config) error {
	switch cfg.Data.Backend {
	case platform.AdapterFS, platform.AdapterSQLite, platform.AdapterMemory:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Data.Backend)
	}
	switch cfg.Data.Format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown format %q", cfg.Data.Format)
	}
	if cfg.Data.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if _, err := parseLevel(cfg.Logger.Level); err != nil {
		return err
	}
	if cfg.Logger.Format != "text" && cfg.Logger.Format != "json" {
		return fmt.Errorf("unknown log format %q", cfg.Logger.Format)
	}
	return nil
}

// Options translates the data section into platform options.
func (c *Config) Options(logger *slog.Logger) []platform.Option {
	return []platform.Option{
		platform.WithAdapter(c.Data.Backend),
		platform.WithFormat(c.Data.Format),
		platform.WithDebounce(c.Data.Debounce),
		platform.WithDevSafety(c.Data.DevSafety),
		platform.WithLogger(logger),
	}
}

// NewLogger builds the slog logger described by the logger section.
// verbose forces the debug level.
func (c *Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level, _ := parseLevel(c.Logger.Level)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Logger.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
