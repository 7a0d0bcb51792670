package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "drawdown-console/internal/errors"
)

func TestLoad_WritesTemplateAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DRAWDOWN_ENGINE_URL", "")
	t.Setenv("DRAWDOWN_LOG_LEVEL", "")
	t.Setenv("DRAWDOWN_DB_PATH", "")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("expected config.toml template to be written: %v", err)
	}
	if cfg.Engine.BaseURL != "http://localhost:8001" {
		t.Errorf("BaseURL = %q", cfg.Engine.BaseURL)
	}
	if cfg.Screens.Volatility.Ticker != "TSLA" {
		t.Errorf("volatility ticker = %q, want TSLA", cfg.Screens.Volatility.Ticker)
	}
	if cfg.Hedging.Shares != 100 {
		t.Errorf("shares = %d, want 100", cfg.Hedging.Shares)
	}
	if cfg.Scenario.TargetVol != 40 || cfg.Scenario.DaysAhead != 7 {
		t.Errorf("scenario defaults = %+v", cfg.Scenario)
	}
	if cfg.Session.DBPath != filepath.Join(dir, "drawdown.db") {
		t.Errorf("db path = %q", cfg.Session.DBPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DRAWDOWN_ENGINE_URL", "https://engine.example.test")
	t.Setenv("DRAWDOWN_LOG_LEVEL", "debug")
	t.Setenv("DRAWDOWN_DB_PATH", filepath.Join(dir, "other.db"))

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.BaseURL != "https://engine.example.test" {
		t.Errorf("BaseURL = %q", cfg.Engine.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Session.DBPath != filepath.Join(dir, "other.db") {
		t.Errorf("db path = %q", cfg.Session.DBPath)
	}
}

func TestLoad_InvalidOverrideRejected(t *testing.T) {
	t.Setenv("DRAWDOWN_ENGINE_URL", "ftp://engine.example.test")
	t.Setenv("DRAWDOWN_LOG_LEVEL", "")
	t.Setenv("DRAWDOWN_DB_PATH", "")

	_, err := Load(t.TempDir())
	if !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Fatalf("Load() error = %v, want ErrConfigInvalid", err)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DRAWDOWN_ENGINE_URL", "")
	t.Setenv("DRAWDOWN_LOG_LEVEL", "")
	t.Setenv("DRAWDOWN_DB_PATH", "")

	content := `
[engine]
base_url = "http://10.0.0.5:9000"

[screens.heatmap]
ticker = "QQQ"

[hedging]
shares = 200
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", cfg.Engine.BaseURL)
	}
	if cfg.Screens.Heatmap.Ticker != "QQQ" {
		t.Errorf("heatmap ticker = %q", cfg.Screens.Heatmap.Ticker)
	}
	if cfg.Screens.Live.Ticker != "SPY" {
		t.Errorf("live ticker default lost, got %q", cfg.Screens.Live.Ticker)
	}
	if cfg.Hedging.Shares != 200 {
		t.Errorf("shares = %d", cfg.Hedging.Shares)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Engine:   EngineConfig{BaseURL: "http://localhost:8001"},
			Hedging:  HedgingConfig{Shares: 100},
			Scenario: ScenarioConfig{TargetVol: 40, DaysAhead: 7},
			Logging:  LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative url", func(c *Config) { c.Engine.BaseURL = "/api" }, true},
		{"ftp url", func(c *Config) { c.Engine.BaseURL = "ftp://x" }, true},
		{"zero shares", func(c *Config) { c.Hedging.Shares = 0 }, true},
		{"negative days", func(c *Config) { c.Scenario.DaysAhead = -1 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
