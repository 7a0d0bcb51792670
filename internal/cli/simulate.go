package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drawdown-console/internal/console"
	"drawdown-console/internal/models"
	"drawdown-console/internal/render"
)

func addSimulationCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newRunCmd(app))
}

func kindNames() string {
	names := make([]string, len(models.Kinds))
	for i, k := range models.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <kind> <ticker>",
		Short: "Run a simulation",
		Long: fmt.Sprintf(`Run one simulation against the pricing engine.

Kinds: %s.

Strike and expiry default from the resolved instrument when omitted: the
strike is the price rounded down (95%% of it for hedging) and the expiry is
the nearest listed one. Scenario runs target the current price unless
--target-price is given.`, kindNames()),
		Example: `  drawdown run analyze SPY --strike 450 --market-price 12.5
  drawdown run greeks AAPL --png greeks.png
  drawdown run hedging SPY --shares 200
  drawdown run scenario TSLA --target-price 220 --target-vol 55 --days 14
  drawdown run heatmap SPY`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireSession(); err != nil {
				return err
			}
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			ticker, err := normalizeTicker(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			flags := cmd.Flags()
			shares, _ := flags.GetInt("shares")
			if shares <= 0 {
				shares = app.Config.Hedging.Shares
			}
			screenKind := console.ScreenForKind(kind)
			cons := console.New(map[console.ScreenKind]console.Inputs{
				screenKind: {
					Ticker:    ticker,
					Shares:    shares,
					TargetVol: app.Config.Scenario.TargetVol,
					DaysAhead: app.Config.Scenario.DaysAhead,
				},
			}, app.Logger)
			s := cons.Screen(screenKind)

			strike, _ := flags.GetString("strike")
			expiry, _ := flags.GetString("expiry")
			s.SetStrike(strike)
			if kind == models.KindScenario {
				tp, tv, days := s.TargetPrice, s.TargetVol, s.DaysAhead
				if flags.Changed("target-price") {
					tp, _ = flags.GetString("target-price")
				}
				if flags.Changed("target-vol") {
					tv, _ = flags.GetString("target-vol")
				}
				if flags.Changed("days") {
					days, _ = flags.GetString("days")
				}
				s.SetScenario(tp, tv, days)
			}

			cons.Drive(ctx, app.Engine, s.Start())
			if s.Err == nil && expiry != "" {
				// Chosen after resolution so the live screen fetches its chain.
				cons.Drive(ctx, app.Engine, s.SetExpiry(expiry))
			}
			if s.Err != nil {
				return s.Err
			}

			req, err := prepareRun(cmd, s)
			if err != nil {
				return err
			}
			cons.Drive(ctx, app.Engine, req)
			if s.Err != nil {
				return s.Err
			}

			pngPath, _ := flags.GetString("png")
			if pngPath != "" {
				ch, err := render.ResultChart(s.Result)
				if err != nil {
					return fmt.Errorf("%s results cannot be charted: %w", kind, err)
				}
				if err := savePNG(pngPath, func(f *os.File) error { return render.WritePNG(ch, f) }); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(s.Result)
			}
			printResult(output, s)
			if pngPath != "" {
				output.Dim("Chart written to %s", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().String("strike", "", "strike price (defaults from the current price)")
	cmd.Flags().String("expiry", "", "expiry date YYYY-MM-DD (defaults to the nearest)")
	cmd.Flags().Float64("market-price", 0, "market price of the contract (analyze)")
	cmd.Flags().Bool("put", false, "value a put instead of a call (analyze)")
	cmd.Flags().Int("shares", 0, "shares to protect (hedging)")
	cmd.Flags().String("target-price", "", "target underlying price (scenario)")
	cmd.Flags().String("target-vol", "", "target implied volatility in percent (scenario)")
	cmd.Flags().String("days", "", "days to roll forward (scenario)")
	cmd.Flags().String("png", "", "write the result chart to a PNG file")
	return cmd
}

// prepareRun returns the simulation request of s. On the live screen a
// listed contract at the chosen strike supplies the market price unless
// one was given.
func prepareRun(cmd *cobra.Command, s *console.Screen) (console.Request, error) {
	if s.Kind != console.ScreenLive {
		return s.Run()
	}

	side := models.Call
	if put, _ := cmd.Flags().GetBool("put"); put {
		side = models.Put
	}
	s.OptionType = side

	if cmd.Flags().Changed("market-price") {
		s.MarketPrice, _ = cmd.Flags().GetFloat64("market-price")
		return s.Run()
	}
	for _, q := range s.Chain.Side(side) {
		if console.FormatNumber(q.Strike) == s.Strike {
			return s.SelectContract(q)
		}
	}
	return s.Run()
}

func printResult(output *Output, s *console.Screen) {
	r := s.Result
	output.Bold("%s · %s %s %s", s.Kind.Title(), s.Ticker, s.Strike, s.Expiry)
	if text := render.ResultPlaceholder(r); text != "" {
		output.Dim("%s", text)
		return
	}

	output.Lines(render.Summary(r))
	if r.Valuation != nil {
		output.Dim("%s", render.MispricingSentence(r.Valuation))
	}

	if r.Heatmap != nil {
		output.Println()
		grid := render.Heatmap(r.Heatmap)
		table := NewTable(output, append([]string{"Vol"}, grid.Headers...)...)
		for _, row := range grid.Rows {
			cells := make([]string, 0, len(row)+1)
			if len(row) > 0 {
				cells = append(cells, row[0].VolText)
			}
			for _, c := range row {
				cells = append(cells, output.Classed(c.Class, c.Text))
			}
			table.AddRow(cells...)
		}
		table.Render()
		return
	}

	if t := render.SeriesTable(r); len(t.Rows) > 0 {
		output.Println()
		table := NewTable(output, t.Headers...)
		for _, row := range t.Rows {
			table.AddRow(row...)
		}
		table.Render()
	}
}
