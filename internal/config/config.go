package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSearchPath   = "~/Documents/scenes"
	DefaultIndexPath    = "~/.cache/sceneforge/index.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultHTTPAddr     = "127.0.0.1:8420"
	DefaultFetchTimeout = 30 * time.Second
	DefaultPrefetch     = 8

	// EnvConfig names the config file to read instead of the default one
	EnvConfig = "SCENEFORGE_CONFIG"
	envPrefix = "SCENEFORGE_"
)

// Config holds the settings shared by every sceneforge binary
type Config struct {
	// SearchPath is the directory scenes are indexed from and relative
	// scene arguments are resolved against
	SearchPath string `yaml:"search_path"`
	// IndexPath is the sqlite scene index file
	IndexPath string `yaml:"index_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	HTTPAddr     string        `yaml:"http_addr"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Prefetch fetches referenced component payloads concurrently
	Prefetch      bool `yaml:"prefetch"`
	PrefetchLimit int  `yaml:"prefetch_limit"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		SearchPath:    DefaultSearchPath,
		IndexPath:     DefaultIndexPath,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		HTTPAddr:      DefaultHTTPAddr,
		FetchTimeout:  DefaultFetchTimeout,
		PrefetchLimit: DefaultPrefetch,
	}
}

// DefaultFile returns the config file path: $SCENEFORGE_CONFIG, falling
// back to ~/.config/sceneforge/config.yaml
func DefaultFile() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return "~/.config/sceneforge/config.yaml"
}

// Load reads the config file at path over the defaults, then applies
// SCENEFORGE_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(ExpandHome(path))
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	cfg.SearchPath = ExpandHome(cfg.SearchPath)
	cfg.IndexPath = ExpandHome(cfg.IndexPath)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env("SEARCH_PATH"); v != "" {
		c.SearchPath = v
	}
	if v := env("INDEX_PATH"); v != "" {
		c.IndexPath = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := env("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := env("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sFETCH_TIMEOUT: %w", envPrefix, err)
		}
		c.FetchTimeout = d
	}
	if v := env("PREFETCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sPREFETCH: %w", envPrefix, err)
		}
		c.Prefetch = b
	}
	if v := env("PREFETCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPREFETCH_LIMIT: %w", envPrefix, err)
		}
		c.PrefetchLimit = n
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

// Validate checks the values that cannot be fixed up silently
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", c.LogFormat)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative")
	}
	if c.PrefetchLimit < 0 {
		return fmt.Errorf("prefetch limit cannot be negative")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// SearchPath returns the scene directory from SCENEFORGE_SEARCH_PATH,
// falling back to DefaultSearchPath.
func SearchPath() string {
	if v := env("SEARCH_PATH"); v != "" {
		return v
	}
	return DefaultSearchPath
}

// IndexPath returns the index file from SCENEFORGE_INDEX_PATH, falling
// back to DefaultIndexPath.
func IndexPath() string {
	if v := env("INDEX_PATH"); v != "" {
		return v
	}
	return DefaultIndexPath
}
