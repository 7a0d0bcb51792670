package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Version is the console release reported by `drawdown version`.
const Version = "0.3.0"

const configTemplate = `# Drawdown Console Configuration

[engine]
# Base URL of the pricing engine (serves /api/stock, /api/chain, /api/analyze, ...)
base_url = "http://localhost:8001"
user_agent = "drawdown-console"

# Startup ticker for each analytics screen
[screens.live]
ticker = "SPY"

[screens.greeks]
ticker = "SPY"

[screens.volatility]
ticker = "TSLA"

[screens.hedging]
ticker = "SPY"

[screens.scenario]
ticker = "SPY"

[screens.heatmap]
ticker = "SPY"

[scenario]
# Target implied volatility (percent)
target_vol = 40.0
# Days to roll forward
days_ahead = 7

[hedging]
# Shares protected by one put contract
shares = 100

[session]
# Local account database (defaults to <config dir>/drawdown.db)
db_path = ""

[ui]
color_enabled = true

[logging]
# debug, info, warn, error
level = "info"
file = true
max_size = 50
max_backups = 5
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("writing template %s: %w", path, err)
	}
	return nil
}
