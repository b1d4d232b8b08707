// Package config loads laibrary settings from defaults, an optional
// .laibrary.toml file, LAIBRARY_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the project configuration file looked up in the working directory.
	FileName = ".laibrary.toml"
	// EnvPrefix prefixes environment variables, e.g. LAIBRARY_FORMAT.
	EnvPrefix = "LAIBRARY"
)

// Config holds the settings of one run.
type Config struct {
	Language string `mapstructure:"language" validate:"required"`
	Format   string `mapstructure:"format" validate:"required,oneof=xml toon"`
	Output   string `mapstructure:"output"`
	Cache    string `mapstructure:"cache"`
	Verbose  bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Language: "rust",
		Format:   "xml",
	}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath, when set, must name an existing TOML file and replaces
	// the lookup of FileName in Dir.
	ConfigFilePath string
	// Dir is searched for FileName and a .env file. Defaults to ".".
	Dir string
	// Flags are bound over file and environment values. Only flags the
	// user actually set take precedence.
	Flags *pflag.FlagSet
}

var keys = []string{"language", "format", "output", "cache", "verbose"}

var validate = validator.New()

// Load resolves and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	// .env values never override variables already set in the environment.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("language", defaults.Language)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("cache", defaults.Cache)
	v.SetDefault("verbose", defaults.Verbose)

	path := opts.ConfigFilePath
	if path == "" {
		if local := filepath.Join(dir, FileName); fileExists(local) {
			path = local
		}
	} else if !fileExists(path) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for _, key := range keys {
			if f := opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
