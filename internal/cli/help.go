package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
	rootCmd.AddCommand(newQuickstartCmd(app))
}

type commandEntry struct {
	cmd  string
	desc string
}

type commandCategory struct {
	name     string
	commands []commandEntry
}

var commandCategories = []commandCategory{
	{
		name: "Accounts",
		commands: []commandEntry{
			{"auth register <id>", "Create a local account"},
			{"auth login <id>", "Sign in"},
			{"auth logout", "Sign out"},
			{"auth whoami", "Show the signed-in account"},
			{"auth users", "List registered accounts"},
		},
	},
	{
		name: "Market Data",
		commands: []commandEntry{
			{"quote <ticker>", "Price, history and listed expirations"},
			{"chain <ticker> [expiry]", "Option chain for one expiry"},
			{"popular [--quotes]", "Popular assets board"},
		},
	},
	{
		name: "Simulations",
		commands: []commandEntry{
			{"run analyze <ticker>", "Value a contract against Black-Scholes"},
			{"run greeks <ticker>", "Greeks across underlying prices"},
			{"run vol <ticker>", "Option price across volatilities"},
			{"run hedging <ticker>", "Protective put payoff"},
			{"run scenario <ticker>", "What-if projection"},
			{"run heatmap <ticker>", "Price and volatility risk matrix"},
		},
	},
	{
		name: "Console",
		commands: []commandEntry{
			{"console", "Interactive six-screen console"},
			{"glossary [filter]", "Options terminology"},
			{"demo-engine", "Run the local demo pricing engine"},
		},
	},
	{
		name: "Utilities",
		commands: []commandEntry{
			{"status", "Engine and account store health"},
			{"config show/path/validate", "Configuration"},
			{"version", "Version information"},
		},
	},
	{
		name: "Help",
		commands: []commandEntry{
			{"help <command>", "Detailed help"},
			{"commands", "List all commands"},
			{"examples", "Common workflows"},
			{"quickstart", "New user guide"},
		},
	},
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Drawdown Console Commands")
			output.Println()

			for _, cat := range commandCategories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %s %s\n", output.Cyan(PadRight(c.cmd, 30)), c.desc)
				}
				output.Println()
			}

			output.Dim("Use 'drawdown help <command>' for detailed help on any command")
			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common analytics workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "First Session",
					commands: []string{
						"drawdown auth register ada --first Ada --last Lovelace",
						"drawdown auth login ada        # Sign in",
						"drawdown console               # Open the console",
					},
				},
				{
					title: "Price a Listed Contract",
					commands: []string{
						"drawdown quote SPY             # Current price and expirations",
						"drawdown chain SPY             # Nearest expiry chain",
						"drawdown run analyze SPY --strike 450",
					},
				},
				{
					title: "Protect a Position",
					commands: []string{
						"drawdown run hedging SPY --shares 200",
						"drawdown run hedging SPY --png hedge.png  # Payoff chart",
					},
				},
				{
					title: "What-if Analysis",
					commands: []string{
						"drawdown run scenario TSLA --target-price 220 --target-vol 55 --days 14",
						"drawdown run heatmap TSLA      # Risk matrix around the strike",
					},
				},
				{
					title: "Offline Practice",
					commands: []string{
						"drawdown demo-engine           # Serve demo data on 127.0.0.1:8001",
						"drawdown --engine http://127.0.0.1:8001 run greeks SPY",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}
			return nil
		},
	}
}

func newQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		Long:  "Step-by-step guide for new users.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Drawdown Console - Quick Start Guide")
			output.Println()

			steps := []struct {
				title string
				desc  string
				cmd   string
			}{
				{"Point at an Engine", "Set engine.base_url in config.toml, or start the demo engine.", "drawdown config path  # Shows config directory"},
				{"Create an Account", "Accounts live in a local database.", "drawdown auth register <id>"},
				{"Sign In", "Every market and simulation command needs a session.", "drawdown auth login <id>"},
				{"Look Up a Ticker", "Resolve a price and the listed expirations.", "drawdown quote SPY"},
				{"Run a Simulation", "Strike and expiry default from the quote.", "drawdown run greeks SPY"},
				{"Open the Console", "All six screens, live.", "drawdown console"},
			}

			for i, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), i+1, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Configuration Files")
			output.Println()
			output.Printf("  %s - engine, screen tickers, simulation inputs\n", output.Cyan("config.toml"))
			output.Printf("  %s - optional DRAWDOWN_* overrides\n", output.Cyan(".env"))
			output.Println()

			output.Bold("Getting Help")
			output.Println()
			output.Printf("  %s - List all commands\n", output.Cyan("drawdown commands"))
			output.Printf("  %s - Common workflows\n", output.Cyan("drawdown examples"))
			output.Printf("  %s - Options terminology\n", output.Cyan("drawdown glossary"))
			return nil
		},
	}
}
