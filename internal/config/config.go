// Package config provides configuration management for the appstream
// tools.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with AS_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ~/.appstream/config.yaml,
//     /etc/appstream/config.yaml)
//  3. .env files
//  4. Environment variables (AS_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("cache: %s\n", cfg.Cache.Dir)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use AS_ prefix and underscores for nested keys:
//   - AS_SERVER_PORT=8095
//   - AS_CACHE_DIR=/tmp/appstream-cache
//   - AS_LOCALE_DEFAULT=de_DE
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	// Paths lists the metadata source locations.
	Paths PathsConfig `mapstructure:"paths"`

	// Cache configures the on-disk pool cache.
	Cache CacheConfig `mapstructure:"cache"`

	// Locale selects the language used for resolution and search.
	Locale LocaleConfig `mapstructure:"locale"`

	// Search selects the text index backend.
	Search SearchConfig `mapstructure:"search"`

	// Monitor configures the filesystem watcher that triggers rebuilds.
	Monitor MonitorConfig `mapstructure:"monitor"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`

	// Security contains rate limiting and CORS settings for the server
	Security SecurityConfig `mapstructure:"security"`
}

// PathsConfig lists where metadata is read from. Directories are scanned
// recursively; missing directories are silently skipped. The per-group
// priority is the merge precedence of every source in that group: a
// higher value wins over a lower one when the same component id appears
// in several sources.
type PathsConfig struct {
	// MetainfoDirs hold per-application metainfo XML files.
	MetainfoDirs []string `mapstructure:"metainfo_dirs"`

	// MetainfoPriority is the merge precedence of the metainfo dirs.
	MetainfoPriority int `mapstructure:"metainfo_priority"`

	// CatalogDirs hold distribution catalog files (XML or DEP-11 YAML,
	// optionally gzip-compressed).
	CatalogDirs []string `mapstructure:"catalog_dirs"`

	// CatalogPriority is the merge precedence of the catalog dirs.
	CatalogPriority int `mapstructure:"catalog_priority"`

	// FlatpakDirs hold catalogs exported by Flatpak remotes.
	FlatpakDirs []string `mapstructure:"flatpak_dirs"`

	// FlatpakPriority is the merge precedence of the Flatpak dirs.
	FlatpakPriority int `mapstructure:"flatpak_priority"`
}

// CacheConfig configures the persisted pool state.
type CacheConfig struct {
	// Dir is the directory holding the component database and the
	// source fingerprint.
	Dir string `mapstructure:"dir"`
}

// ComponentsPath is the component database location.
func (c *CacheConfig) ComponentsPath() string {
	return filepath.Join(c.Dir, "components.db")
}

// FingerprintPath is the source fingerprint location.
func (c *CacheConfig) FingerprintPath() string {
	return filepath.Join(c.Dir, "fingerprint.json")
}

// LocaleConfig selects the active locale.
type LocaleConfig struct {
	// Default is the locale used when the caller does not specify one.
	// Empty means: derive from the LC_MESSAGES/LANG environment.
	Default string `mapstructure:"default"`
}

// Active returns the configured locale, falling back to the process
// environment and finally to the untranslated locale.
func (l *LocaleConfig) Active() string {
	if l.Default != "" {
		return l.Default
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			// Strip the encoding suffix ("de_DE.UTF-8" -> "de_DE").
			if i := strings.IndexByte(v, '.'); i >= 0 {
				v = v[:i]
			}
			return v
		}
	}
	return "C"
}

// SearchConfig selects the text index backend.
type SearchConfig struct {
	// Backend is "memory" or "fts" (SQLite FTS5).
	Backend string `mapstructure:"backend"`
}

// MonitorConfig configures the source watcher.
type MonitorConfig struct {
	// Enabled turns the filesystem watcher on in server mode.
	Enabled bool `mapstructure:"enabled"`

	// MinInterval is the minimum time between watcher-triggered
	// refreshes.
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server listen port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format"`
}

// SecurityConfig contains rate limiting and CORS settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (AS_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.appstream")
		v.AddConfigPath("/etc/appstream")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file may be absent (run on defaults); any
		// other read problem is fatal. For auto-discovery only a real
		// parse error fails.
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("AS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.metainfo_dirs", []string{
		"/usr/share/metainfo",
		"/usr/local/share/metainfo",
	})
	v.SetDefault("paths.metainfo_priority", 0)
	v.SetDefault("paths.catalog_dirs", []string{
		"/usr/share/swcatalog",
		"/var/lib/swcatalog",
		"/var/cache/swcatalog",
	})
	v.SetDefault("paths.catalog_priority", 0)
	v.SetDefault("paths.flatpak_dirs", []string{
		"/var/lib/flatpak/appstream",
	})
	v.SetDefault("paths.flatpak_priority", 0)

	v.SetDefault("cache.dir", defaultCacheDir())

	v.SetDefault("locale.default", "")

	v.SetDefault("search.backend", "memory")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.min_interval", "5s")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
}

// defaultCacheDir prefers the system cache location when writable and
// falls back to the per-user cache.
func defaultCacheDir() string {
	const system = "/var/cache/appstream"
	if f, err := os.OpenFile(filepath.Join(system, ".write-test"), os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		f.Close()
		os.Remove(f.Name())
		return system
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "appstream")
	}
	return system
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Cache.Dir == "" {
		return fmt.Errorf("cache directory is required")
	}

	switch cfg.Search.Backend {
	case "memory", "fts":
	default:
		return fmt.Errorf("unknown search backend %q (want memory or fts)", cfg.Search.Backend)
	}

	if cfg.Monitor.Enabled && cfg.Monitor.MinInterval <= 0 {
		return fmt.Errorf("monitor min_interval must be positive, got %s", cfg.Monitor.MinInterval)
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
