// Package cli provides the command-line interface of the analytics console.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"drawdown-console/internal/config"
	"drawdown-console/internal/console"
	"drawdown-console/internal/engine"
	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/logging"
	"drawdown-console/internal/models"
	"drawdown-console/internal/security"
	"drawdown-console/internal/session"
	"drawdown-console/internal/store"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Engine engine.Engine
	Store  store.AccountStore
	Audit  *security.AuditLogger
	Gate   *session.Gate
}

// NewApp wires the engine client, account store and session gate. A store
// that cannot be opened leaves Gate nil; commands that need a session
// report it instead of failing at startup.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *App {
	app := &App{
		Config: cfg,
		Logger: logger,
		Engine: engine.NewClient(cfg.Engine.BaseURL,
			engine.WithUserAgent(cfg.Engine.UserAgent),
			engine.WithLogger(logger),
		),
	}

	audit, err := security.NewAuditLogger(security.AuditConfig{
		Path:       cfg.AuditFilePath(),
		MaxSize:    10,
		MaxBackups: 10,
		MaxAge:     365,
		Compress:   true,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open audit log, session events will not be recorded")
	} else {
		app.Audit = audit
	}

	dataStore, err := store.NewSQLiteStore(cfg.Session.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, sign-in will be unavailable")
		return app
	}
	app.Store = dataStore
	logger.Debug().Str("path", cfg.Session.DBPath).Msg("SQLite store initialized")

	gate, err := session.NewGate(ctx, dataStore, app.Audit, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read session")
		return app
	}
	app.Gate = gate
	return app
}

// Close releases the store and audit log.
func (a *App) Close() error {
	var first error
	if a.Store != nil {
		first = a.Store.Close()
	}
	if err := a.Audit.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// gate returns the session gate or explains why it is missing.
func (a *App) gate() (*session.Gate, error) {
	if a.Gate == nil {
		return nil, fmt.Errorf("account store unavailable at %s: %w", a.Config.Session.DBPath, apperrors.ErrDatabaseError)
	}
	return a.Gate, nil
}

// requireSession returns the signed-in user. The analytics commands are
// unreachable without one.
func (a *App) requireSession() (*models.User, error) {
	g, err := a.gate()
	if err != nil {
		return nil, err
	}
	u, err := g.Require()
	if err != nil {
		return nil, fmt.Errorf("%w: run `drawdown auth login` first", err)
	}
	return u, nil
}

// newConsole builds the screens with the configured startup inputs.
func (a *App) newConsole() *console.Console {
	cfg := a.Config
	tickers := map[console.ScreenKind]string{
		console.ScreenLive:       cfg.Screens.Live.Ticker,
		console.ScreenGreeks:     cfg.Screens.Greeks.Ticker,
		console.ScreenVolatility: cfg.Screens.Volatility.Ticker,
		console.ScreenHedging:    cfg.Screens.Hedging.Ticker,
		console.ScreenScenario:   cfg.Screens.Scenario.Ticker,
		console.ScreenHeatmap:    cfg.Screens.Heatmap.Ticker,
	}
	inputs := make(map[console.ScreenKind]console.Inputs, len(tickers))
	for kind, ticker := range tickers {
		inputs[kind] = console.Inputs{
			Ticker:    ticker,
			Shares:    cfg.Hedging.Shares,
			TargetVol: cfg.Scenario.TargetVol,
			DaysAhead: cfg.Scenario.DaysAhead,
		}
	}
	return console.New(inputs, a.Logger)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drawdown",
		Short: "Drawdown Labs - options analytics console",
		Long: `Drawdown Labs is a terminal console for options analytics.

It resolves tickers, lists option chains and runs six simulations against a
pricing engine: valuation, Greeks profile, volatility sweep, hedging payoff,
scenario projection and risk heatmap.

Use 'drawdown auth register' and 'drawdown auth login' to get started.
Use 'drawdown examples' to see common workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if !app.Config.UI.ColorEnabled {
				color.NoColor = true
			}
			if url, _ := cmd.Flags().GetString("engine"); url != "" {
				app.Config.Engine.BaseURL = url
				app.Engine = engine.NewClient(url,
					engine.WithUserAgent(app.Config.Engine.UserAgent),
					engine.WithLogger(app.Logger),
				)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("engine", "", "pricing engine base URL (overrides config)")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addSimulationCommands(rootCmd, app)
	addConsoleCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"version": config.Version})
			}
			output.Printf("Drawdown Console v%s\n", config.Version)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the console configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": app.Config.Dir})
			}
			output.Println(app.Config.Dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Engine")
	output.Printf("  Base URL:        %s\n", security.RedactURL(cfg.Engine.BaseURL))
	output.Printf("  User Agent:      %s\n", cfg.Engine.UserAgent)
	output.Println()

	output.Bold("Startup Tickers")
	for _, row := range [][2]string{
		{"Live", cfg.Screens.Live.Ticker},
		{"Greeks", cfg.Screens.Greeks.Ticker},
		{"Volatility", cfg.Screens.Volatility.Ticker},
		{"Hedging", cfg.Screens.Hedging.Ticker},
		{"Scenario", cfg.Screens.Scenario.Ticker},
		{"Heatmap", cfg.Screens.Heatmap.Ticker},
	} {
		output.Printf("  %s %s\n", PadRight(row[0]+":", 16), row[1])
	}
	output.Println()

	output.Bold("Simulation Inputs")
	output.Printf("  Target Vol:      %.1f%%\n", cfg.Scenario.TargetVol)
	output.Printf("  Days Ahead:      %d\n", cfg.Scenario.DaysAhead)
	output.Printf("  Hedge Shares:    %d\n", cfg.Hedging.Shares)
	output.Println()

	output.Bold("Session & Logging")
	output.Printf("  Account DB:      %s\n", cfg.Session.DBPath)
	output.Printf("  Log Level:       %s\n", strings.ToUpper(cfg.Logging.Level))
	output.Printf("  Log File:        %v\n", cfg.Logging.File)
}
