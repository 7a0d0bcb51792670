package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"drawdown-console/internal/demoengine"
	"drawdown-console/internal/glossary"
	"drawdown-console/internal/logging"
	"drawdown-console/internal/tui"
)

func addConsoleCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newConsoleCmd(app))
	rootCmd.AddCommand(newGlossaryCmd(app))
	rootCmd.AddCommand(newDemoEngineCmd(app))
}

// fileLogger is the logger used while the terminal belongs to the TUI.
func (a *App) fileLogger() zerolog.Logger {
	if !a.Config.Logging.File {
		return zerolog.Nop()
	}
	return logging.NewLoggerWithConfig(logging.LogConfig{
		Level:      a.Config.Logging.Level,
		File:       true,
		FilePath:   a.Config.LogFilePath(),
		MaxSize:    a.Config.Logging.MaxSize,
		MaxBackups: a.Config.Logging.MaxBackups,
		MaxAge:     a.Config.Logging.MaxAge,
	})
}

func newConsoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive analytics console",
		Long: `Open the six-screen analytics console.

Screens: Live Market Pricing, Greeks Profile, Volatility Sweep, Hedging,
Scenario Analysis and Risk Heatmap. Each starts on the ticker configured
under [screens] and resolves it as soon as the console opens.

Sign in from the console or beforehand with 'drawdown auth login'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := app.gate()
			if err != nil {
				return err
			}
			logger := app.fileLogger()
			logger.Info().Str("engine", app.Config.Engine.BaseURL).Msg("Console opened")
			return tui.Run(cmd.Context(), app.newConsole(), app.Engine, gate, logger)
		},
	}
}

func newGlossaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "glossary [filter]",
		Short: "Options terminology",
		Long:  "List the options glossary. A filter keeps only terms containing it, ignoring case.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entries := glossary.Filter(query)

			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Dim("No terms match %q", query)
				return nil
			}
			for _, e := range entries {
				output.Printf("%s\n", output.Cyan(e.Term))
				output.Printf("  %s\n\n", e.Definition)
			}
			return nil
		},
	}
}

func newDemoEngineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo-engine",
		Short: "Run the local demo pricing engine",
		Long: `Serve canned pricing-engine responses over HTTP.

Point the console at it with --engine http://<addr> or engine.base_url.
Stop it with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			addr, _ := cmd.Flags().GetString("addr")
			srv := demoengine.NewServer(demoengine.Config{Addr: addr}, app.Logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			output.Success("Demo engine listening on http://%s", srv.Addr())

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			output.Info("Demo engine stopped")
			return nil
		},
	}
	cmd.Flags().String("addr", demoengine.DefaultAddr, "listen address")
	return cmd
}
