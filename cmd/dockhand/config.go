package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Deploy   domain.DeployConfig `mapstructure:"deploy"`
	Database DatabaseConfig      `mapstructure:"database"`
	Log      LogConfig           `mapstructure:"log"`
	Paths    PathsConfig         `mapstructure:"paths"`
}

// DatabaseConfig holds run history database configuration.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PathsConfig holds local working directories.
type PathsConfig struct {
	// WorkDir is where the application repository is checked out.
	WorkDir string `mapstructure:"work_dir"`

	// LogDir is where per-run log files are written.
	LogDir string `mapstructure:"log_dir"`
}

// CleanupConfig derives the connection subset used by cleanup mode.
func (c *Config) CleanupConfig() *domain.CleanupConfig {
	return &domain.CleanupConfig{
		User:    c.Deploy.User,
		Host:    c.Deploy.Host,
		KeyPath: c.Deploy.KeyPath,
	}
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults. Empty defaults register the keys so environment
	// overrides are seen by Unmarshal.
	v.SetDefault("deploy.repo_url", "")
	v.SetDefault("deploy.user", "")
	v.SetDefault("deploy.host", "")
	v.SetDefault("deploy.branch", domain.DefaultBranch)
	v.SetDefault("deploy.key_path", domain.DefaultKeyPath)
	v.SetDefault("deploy.app_port", domain.DefaultAppPort)
	v.SetDefault("database.dsn", "./data/dockhand.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("paths.work_dir", "./data/checkout")
	v.SetDefault("paths.log_dir", "./data/logs")

	// Load from file if provided, otherwise look for dockhand.yaml next to
	// the binary's working directory
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("dockhand")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Only fail on a file that exists but cannot be parsed
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("DOCKHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger at the configured level and format. Besides
// the console, every run also writes a timestamped log file under the log
// directory so a failed run leaves an artifact behind.
func SetupLogger(cfg *Config, mode domain.RunMode) (*slog.Logger, func(), error) {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	out := io.Writer(os.Stderr)
	cleanup := func() {}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		name := fmt.Sprintf("%s-%s.log", mode, time.Now().Format("20060102-150405"))
		file, err := os.Create(filepath.Join(cfg.Paths.LogDir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, file)
		cleanup = func() { file.Close() }
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), cleanup, nil
}
