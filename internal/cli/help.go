// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
	rootCmd.AddCommand(newQuickstartCmd(app))
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("MOEX Bond Viewer Commands")
			output.Println()

			categories := []struct {
				name     string
				commands []struct {
					cmd  string
					desc string
				}
			}{
				{
					name: "Bond Data",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"info <code>", "Issue table and payment calendar"},
						{"lookup <code>", "Resolve an ISIN to its trading code"},
						{"lookup <code> -r", "Resolve a trading code to its ISIN"},
					},
				},
				{
					name: "Yield",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"yield <code>", "Yield to maturity at the previous-day price"},
						{"yield <code> -p 98.5", "Yield to maturity at a given clean price"},
					},
				},
				{
					name: "Reports",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"report <code>", "Write an HTML report file"},
						{"report <code> -f pdf", "Write the report as PDF, CSV or text"},
						{"report <code> -o file", "Write the report to a specific path"},
					},
				},
				{
					name: "Journal",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"history", "Recently executed commands"},
						{"history -l 50", "More of the journal"},
					},
				},
				{
					name: "Configuration",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"config init", "Write a default config file"},
						{"config show", "Show current configuration"},
						{"config path", "Show configuration file path"},
						{"version", "Version information"},
					},
				},
				{
					name: "Help",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"help <command>", "Detailed help"},
						{"commands", "List all commands"},
						{"examples", "Common workflows"},
						{"quickstart", "New user guide"},
					},
				},
			}

			for _, cat := range categories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %-30s %s\n", output.Cyan(c.cmd), c.desc)
				}
				output.Println()
			}

			output.Dim("Use 'moexbond help <command>' for detailed help on any command")

			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common bond-viewer workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Inspect a Bond",
					commands: []string{
						"moexbond info SU26238RMFS4        # OFZ by trading code",
						"moexbond info RU000A1038V6        # same bond by ISIN",
						"moexbond info SU26238RMFS4 -l 10  # first ten calendar rows",
						"moexbond info SU26238RMFS4 --no-cashflow  # issue table only",
					},
				},
				{
					title: "Resolve Identifiers",
					commands: []string{
						"moexbond lookup RU000A1038V6      # ISIN to trading code",
						"moexbond lookup SU26238RMFS4 -r   # trading code to ISIN",
					},
				},
				{
					title: "Compute Yields",
					commands: []string{
						"moexbond yield SU26238RMFS4       # at the previous-day price",
						"moexbond yield SU26238RMFS4 -p 52.5  # at a clean price of 52.5%",
					},
				},
				{
					title: "Write Reports",
					commands: []string{
						"moexbond report SU26238RMFS4      # HTML report in the reports dir",
						"moexbond report SU26238RMFS4 -f pdf -o ofz26238.pdf",
						"moexbond report SU26238RMFS4 -f csv  # for a spreadsheet",
					},
				},
				{
					title: "Scripting",
					commands: []string{
						"moexbond info SU26238RMFS4 --json | jq '.cashflow.rows[0]'",
						"moexbond yield SU26238RMFS4 --json | jq '.ytm'",
					},
				},
				{
					title: "Review the Journal",
					commands: []string{
						"moexbond history                  # recent commands",
						"moexbond history -l 50            # a longer window",
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

			output.Bold("MOEX Bond Viewer - Quick Start Guide")
			output.Println()

			steps := []struct {
				step  int
				title string
				desc  string
				cmd   string
			}{
				{
					step:  1,
					title: "Write the Config File",
					desc:  "Create the default configuration. The defaults talk to the public ISS feed and need no credentials.",
					cmd:   "moexbond config init",
				},
				{
					step:  2,
					title: "Look at a Bond",
					desc:  "Fetch the issue table and the payment calendar for an OFZ.",
					cmd:   "moexbond info SU26238RMFS4",
				},
				{
					step:  3,
					title: "Resolve an ISIN",
					desc:  "Any command also accepts an ISIN; lookup shows the mapping.",
					cmd:   "moexbond lookup RU000A1038V6",
				},
				{
					step:  4,
					title: "Compute the Yield",
					desc:  "Yield to maturity at the previous session's weighted average price.",
					cmd:   "moexbond yield SU26238RMFS4",
				},
				{
					step:  5,
					title: "Write a Report",
					desc:  "Render the tables into a file you can print or share.",
					cmd:   "moexbond report SU26238RMFS4 -f pdf",
				},
				{
					step:  6,
					title: "Review Your Session",
					desc:  "Every completed command lands in the local journal.",
					cmd:   "moexbond history",
				},
			}

			for _, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), s.step, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Configuration")
			output.Println()
			output.Printf("  %s - API endpoint, reports, journal and logging\n", output.Cyan("config.toml"))
			output.Printf("  %s - shows where the file lives\n", output.Cyan("moexbond config path"))
			output.Println()

			output.Bold("Getting Help")
			output.Println()
			output.Printf("  %s - List all commands\n", output.Cyan("moexbond commands"))
			output.Printf("  %s - Common workflows\n", output.Cyan("moexbond examples"))
			output.Printf("  %s - Help for any command\n", output.Cyan("moexbond help <command>"))

			return nil
		},
	}
}
