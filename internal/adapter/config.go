package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds recommendation server configuration
type ServerConfig struct {
	URL             string        `mapstructure:"url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // 0 = no timeout
	BreakerFailures uint32        `mapstructure:"breaker_failures"` // 0 = breaker disabled
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	BannerTimeout time.Duration `mapstructure:"banner_timeout"`
	GridColumns   int           `mapstructure:"grid_columns"`
}

// CacheConfig holds local persistence configuration
type CacheConfig struct {
	Dir         string `mapstructure:"dir"` // empty = memory only
	HistorySize int    `mapstructure:"history_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:             "http://localhost:8000",
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		UI: UIConfig{
			BannerTimeout: 5 * time.Second,
			GridColumns:   3,
		},
		Cache: CacheConfig{
			Dir:         defaultCachePath(),
			HistorySize: 10,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "cache")
	}
}

// RegisterFlags adds the command-line overrides to flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to config file")
	flags.String("server", "", "recommendation server URL")
	flags.String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
}

// flagKeys maps command-line flags to config keys
var flagKeys = map[string]string{
	"server":    "server.url",
	"log-level": "logging.level",
}

// LoadConfig loads configuration from file, environment and flags.
// flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setDefaults(v, cfg)

	configFile := ""
	if flags != nil {
		configFile, _ = flags.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (MARQUEE_SERVER_URL, ...)
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flags.Changed(name) {
				val, _ := flags.GetString(name)
				v.Set(key, val)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	v.SetDefault("server.breaker_failures", cfg.Server.BreakerFailures)
	v.SetDefault("server.breaker_cooldown", cfg.Server.BreakerCooldown)
	v.SetDefault("ui.banner_timeout", cfg.UI.BannerTimeout)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.history_size", cfg.Cache.HistorySize)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that would make the client unusable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("server.url must be set")
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must start with http:// or https://, got %q", c.Server.URL)
	}
	if c.UI.BannerTimeout <= 0 {
		return fmt.Errorf("ui.banner_timeout must be positive")
	}
	if c.UI.GridColumns < 1 {
		c.UI.GridColumns = 1
	}
	if c.Cache.HistorySize < 0 {
		c.Cache.HistorySize = 0
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
