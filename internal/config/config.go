package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

type FilterConfig struct {
	RejectExtensions []string `mapstructure:"reject_extensions"`
	IgnoreList       []string `mapstructure:"ignore_list"`
}

type CorrelationConfig struct {
	TrustCookies bool `mapstructure:"trust_cookies"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type LogConfig struct {
	Debug  bool   `mapstructure:"debug"`
	Format string `mapstructure:"format"`
}

type Config struct {
	SourceEnv   string            `mapstructure:"source_env"`
	Backend     string            `mapstructure:"backend"`
	BufferSize  int               `mapstructure:"buffer_size"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Correlation CorrelationConfig `mapstructure:"correlation"`
	Lock        bool              `mapstructure:"lock"`
	History     HistoryConfig     `mapstructure:"history"`
	DaemonAddr  string            `mapstructure:"daemon_addr"`
	Log         LogConfig         `mapstructure:"log"`
}

var Default = Config{
	SourceEnv:  "DOWNLOADS",
	Backend:    defaultBackend(),
	BufferSize: 4096,
	Retry: RetryConfig{
		Attempts: 1,
		Delay:    time.Second,
	},
	Filter: FilterConfig{
		RejectExtensions: []string{"tmp"},
		IgnoreList:       []string{},
	},
	Lock: true,
	History: HistoryConfig{
		DBPath: "history.db",
	},
	Log: LogConfig{
		Format: "auto",
	},
}

func defaultBackend() string {
	if runtime.GOOS == "linux" {
		return "inotify"
	}
	return "fsnotify"
}

// Dir is the per-user directory holding config.yaml and the history database.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".reroute"), nil
}

// Load reads configuration from path, or from ~/.reroute/config.yaml when path
// is empty. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	v.SetDefault("source_env", Default.SourceEnv)
	v.SetDefault("backend", Default.Backend)
	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("retry.attempts", Default.Retry.Attempts)
	v.SetDefault("retry.delay", Default.Retry.Delay)
	v.SetDefault("filter.reject_extensions", Default.Filter.RejectExtensions)
	v.SetDefault("filter.ignore_list", Default.Filter.IgnoreList)
	v.SetDefault("correlation.trust_cookies", Default.Correlation.TrustCookies)
	v.SetDefault("lock", Default.Lock)
	v.SetDefault("history.enabled", Default.History.Enabled)
	v.SetDefault("history.db_path", filepath.Join(configDir, Default.History.DBPath))
	v.SetDefault("daemon_addr", Default.DaemonAddr)
	v.SetDefault("log.debug", Default.Log.Debug)
	v.SetDefault("log.format", Default.Log.Format)

	v.SetEnvPrefix("REROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "inotify", "fsnotify":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.Retry.Attempts < 0 {
		return fmt.Errorf("retry.attempts must not be negative")
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must not be negative")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive")
	}

	return nil
}
