package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
	"drawdown-console/internal/render"
	"drawdown-console/internal/security"
)

// quoteConcurrency caps parallel resolutions on the popular board.
const quoteConcurrency = 4

func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newPopularCmd(app))
}

func normalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if err := security.ValidateTicker(ticker); err != nil {
		var ve *security.ValidationError
		if apperrors.As(err, &ve) {
			return "", apperrors.NewValidationFailure(ve.Field, ve.Value, ve.Message)
		}
		return "", err
	}
	return ticker, nil
}

func newQuoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <ticker>",
		Short: "Resolve a ticker: price, expirations and history",
		Example: `  drawdown quote SPY
  drawdown quote AAPL --png aapl.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireSession(); err != nil {
				return err
			}
			ticker, err := normalizeTicker(args[0])
			if err != nil {
				return err
			}

			snap, err := app.Engine.ResolveInstrument(cmd.Context(), ticker)
			if err != nil {
				return err
			}

			pngPath, _ := cmd.Flags().GetString("png")
			if pngPath != "" {
				ch, err := render.SnapshotChart(snap)
				if err != nil {
					return err
				}
				if err := savePNG(pngPath, func(f *os.File) error { return render.WritePNG(ch, f) }); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(snap)
			}
			output.Bold("%s", ticker)
			output.Lines(render.SnapshotLines(snap))
			if len(snap.Expirations) > 0 {
				output.Printf("  Listed:          %s\n", strings.Join(snap.Expirations, ", "))
			}
			if !snap.HasPrice() {
				output.Warning("The engine sent no usable price; strike and expiry cannot be inferred.")
			}
			if pngPath != "" {
				output.Dim("Chart written to %s", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().String("png", "", "write the price history chart to a PNG file")
	return cmd
}

func savePNG(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newChainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain <ticker> [expiry]",
		Short: "List the option chain of an expiry",
		Long: `List the calls (or puts) of one expiry. Without an expiry the
nearest listed expiration is used.`,
		Example: `  drawdown chain SPY
  drawdown chain SPY 2025-07-18 --puts`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireSession(); err != nil {
				return err
			}
			ticker, err := normalizeTicker(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			expiry := ""
			if len(args) == 2 {
				expiry = strings.TrimSpace(args[1])
			} else {
				snap, err := app.Engine.ResolveInstrument(ctx, ticker)
				if err != nil {
					return err
				}
				nearest, ok := snap.NearestExpiry()
				if !ok {
					return fmt.Errorf("%s has no listed expirations: %w", ticker, apperrors.ErrDataNotFound)
				}
				expiry = nearest
			}

			chain, err := app.Engine.FetchChain(ctx, ticker, expiry)
			if err != nil {
				return err
			}

			side := models.Call
			if puts, _ := cmd.Flags().GetBool("puts"); puts {
				side = models.Put
			}
			if output.IsJSON() {
				return output.JSON(chain.Side(side))
			}

			output.Bold("%s %s %ss", ticker, expiry, strings.ToUpper(string(side)))
			rows := render.ChainRows(chain, side)
			if len(rows) == 0 {
				output.Dim("No contracts listed for %s", expiry)
				return nil
			}
			table := NewTable(output, "Contract", "Last", "Volume", "IV")
			for i, r := range rows {
				table.AddRow(r.Contract, r.Price, FormatVolume(chain.Side(side)[i].Volume), r.IV)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Bool("puts", false, "list puts instead of calls")
	return cmd
}

// boardRow is one line of the popular board.
type boardRow struct {
	Ticker  string   `json:"ticker"`
	Name    string   `json:"name"`
	Price   *float64 `json:"price,omitempty"`
	Nearest string   `json:"nearest_expiry,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// resolveBoard resolves every popular asset concurrently. A failed
// resolution is reported on its own row and does not stop the others.
func resolveBoard(ctx context.Context, app *App) []boardRow {
	rows := make([]boardRow, len(models.PopularAssets))
	var g errgroup.Group
	g.SetLimit(quoteConcurrency)
	for i, asset := range models.PopularAssets {
		i, asset := i, asset
		rows[i] = boardRow{Ticker: asset.Ticker, Name: asset.Name}
		g.Go(func() error {
			snap, err := app.Engine.ResolveInstrument(ctx, asset.Ticker)
			if err != nil {
				rows[i].Error = apperrors.Message(err)
				return nil
			}
			rows[i].Price = snap.CurrentPrice
			rows[i].Nearest, _ = snap.NearestExpiry()
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func newPopularCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular underlyings",
		Example: `  drawdown popular
  drawdown popular --quotes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			quotes, _ := cmd.Flags().GetBool("quotes")

			if !quotes {
				if output.IsJSON() {
					return output.JSON(models.PopularAssets)
				}
				table := NewTable(output, "Ticker", "Name")
				for _, a := range models.PopularAssets {
					table.AddRow(a.Ticker, a.Name)
				}
				table.Render()
				return nil
			}

			if _, err := app.requireSession(); err != nil {
				return err
			}
			rows := resolveBoard(cmd.Context(), app)
			if output.IsJSON() {
				return output.JSON(rows)
			}
			table := NewTable(output, "Ticker", "Name", "Price", "Nearest Expiry")
			for _, r := range rows {
				switch {
				case r.Error != "":
					table.AddRow(r.Ticker, r.Name, output.Red(r.Error), "")
				case r.Price == nil:
					table.AddRow(r.Ticker, r.Name, "-", r.Nearest)
				default:
					table.AddRow(r.Ticker, r.Name, render.Money(*r.Price), r.Nearest)
				}
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Bool("quotes", false, "resolve every ticker and show its price")
	return cmd
}
