// Package config provides configuration management for the analytics console.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "drawdown-console/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Screens  ScreensConfig  `mapstructure:"screens"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Hedging  HedgingConfig  `mapstructure:"hedging"`
	Session  SessionConfig  `mapstructure:"session"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// EngineConfig points the console at the remote pricing engine.
type EngineConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// ScreenConfig holds per-screen startup values.
type ScreenConfig struct {
	Ticker string `mapstructure:"ticker"`
}

// ScreensConfig holds the startup ticker of every analytics screen.
type ScreensConfig struct {
	Live       ScreenConfig `mapstructure:"live"`
	Greeks     ScreenConfig `mapstructure:"greeks"`
	Volatility ScreenConfig `mapstructure:"volatility"`
	Hedging    ScreenConfig `mapstructure:"hedging"`
	Scenario   ScreenConfig `mapstructure:"scenario"`
	Heatmap    ScreenConfig `mapstructure:"heatmap"`
}

// ScenarioConfig holds scenario projection input defaults.
type ScenarioConfig struct {
	TargetVol float64 `mapstructure:"target_vol"`
	DaysAhead int     `mapstructure:"days_ahead"`
}

// HedgingConfig holds hedging calculator inputs.
type HedgingConfig struct {
	Shares int `mapstructure:"shares"`
}

// SessionConfig holds the local account store location.
type SessionConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/drawdown"
	}
	return filepath.Join(home, ".config", "drawdown")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// A missing .env is normal.
	_ = godotenv.Load(".env")

	cfg := &Config{Dir: configDir}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Session.DBPath == "" {
		cfg.Session.DBPath = filepath.Join(configDir, "drawdown.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.base_url", "http://localhost:8001")
	v.SetDefault("engine.user_agent", "drawdown-console/"+Version)

	v.SetDefault("screens.live.ticker", "SPY")
	v.SetDefault("screens.greeks.ticker", "SPY")
	v.SetDefault("screens.volatility.ticker", "TSLA")
	v.SetDefault("screens.hedging.ticker", "SPY")
	v.SetDefault("screens.scenario.ticker", "SPY")
	v.SetDefault("screens.heatmap.ticker", "SPY")

	v.SetDefault("scenario.target_vol", 40.0)
	v.SetDefault("scenario.days_ahead", 7)
	v.SetDefault("hedging.shares", 100)

	v.SetDefault("ui.color_enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// First run: write the template and fall through to the defaults.
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DRAWDOWN_ENGINE_URL"); v != "" {
		cfg.Engine.BaseURL = v
	}
	if v := os.Getenv("DRAWDOWN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DRAWDOWN_DB_PATH"); v != "" {
		cfg.Session.DBPath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Engine.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("engine.base_url must be an absolute http(s) URL, got %q", c.Engine.BaseURL)
	}

	if c.Hedging.Shares <= 0 {
		return fmt.Errorf("hedging.shares must be positive")
	}
	if c.Scenario.DaysAhead < 0 {
		return fmt.Errorf("scenario.days_ahead must be non-negative")
	}
	if c.Scenario.TargetVol < 0 {
		return fmt.Errorf("scenario.target_vol must be non-negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn or error)", c.Logging.Level)
	}

	return nil
}

// LogFilePath returns where the rotating log file lives.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Dir, "logs", "drawdown.log")
}

// AuditFilePath returns where the session audit log lives.
func (c *Config) AuditFilePath() string {
	return filepath.Join(c.Dir, "logs", "audit.log")
}
