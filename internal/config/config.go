// Package config loads the ledgerwise configuration from flags, files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the application,
// e.g. LEDGERWISE_PATTERNS_BACKEND for patterns.backend.
const EnvPrefix = "LEDGERWISE"

// Config is the application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Patterns PatternsConfig `mapstructure:"patterns"`
}

// LoggingConfig controls the global slog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=console text json"`
}

// PatternsConfig selects where learned patterns are kept.
type PatternsConfig struct {
	Backend      string      `mapstructure:"backend" validate:"oneof=file sqlite mongo"`
	Path         string      `mapstructure:"path"`
	Mongo        MongoConfig `mapstructure:"mongo"`
	OpenAttempts int         `mapstructure:"open_attempts" validate:"gte=1,lte=10"`
}

// MongoConfig locates the MongoDB collection used by the mongo backend.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database" validate:"required"`
	Collection string `mapstructure:"collection" validate:"required"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Patterns: PatternsConfig{
			Backend:      "file",
			OpenAttempts: 3,
			Mongo: MongoConfig{
				Database:   "ledgerwise",
				Collection: "learning_patterns",
			},
		},
	}
}

// DefaultPatternsPath returns the pattern store location for a backend.
func DefaultPatternsPath(backend string) string {
	name := "patterns.json"
	if backend == "sqlite" {
		name = "patterns.db"
	}
	return filepath.Join("~", ".local", "share", "ledgerwise", name)
}

// ExpandPath resolves $VARS and a leading ~ in path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// SetDefaults registers the defaults with v so environment variables for
// every key are honored by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("patterns.backend", d.Patterns.Backend)
	v.SetDefault("patterns.path", "")
	v.SetDefault("patterns.open_attempts", d.Patterns.OpenAttempts)
	v.SetDefault("patterns.mongo.uri", "")
	v.SetDefault("patterns.mongo.database", d.Patterns.Mongo.Database)
	v.SetDefault("patterns.mongo.collection", d.Patterns.Mongo.Collection)
}

// BindEnv makes v read LEDGERWISE_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the configuration from v, fills derived defaults and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	cfg.Patterns.Backend = strings.ToLower(strings.TrimSpace(cfg.Patterns.Backend))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Patterns.Path == "" && cfg.Patterns.Backend != "mongo" {
		cfg.Patterns.Path = DefaultPatternsPath(cfg.Patterns.Backend)
	}
	cfg.Patterns.Path = ExpandPath(cfg.Patterns.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if c.Patterns.Backend == "mongo" && c.Patterns.Mongo.URI == "" {
		return fmt.Errorf("%w: patterns.mongo.uri is required for the mongo backend", common.ErrMissingConfig)
	}
	if c.Patterns.Backend != "mongo" && c.Patterns.Path == "" {
		return fmt.Errorf("%w: patterns.path is required for the %s backend", common.ErrMissingConfig, c.Patterns.Backend)
	}
	return nil
}
