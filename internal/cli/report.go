// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"moex-bonds/internal/bond"
	"moex-bonds/internal/moex"
	"moex-bonds/internal/report"
)

// addReportCommands adds the report generation commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newReportCmd(app))
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <code>",
		Short: "Write a bond report file",
		Long: `Fetch the bond and write a report with the issue table, the payment
calendar and, when the schedule supports it, the yield to maturity.

Formats: html (default), text, csv, pdf. The file lands in the configured
output directory unless --out names a path.`,
		Example: `  moexbond report RU000A0JXQ93
  moexbond report SU26238RMFS4 --format pdf
  moexbond report RU000A0ZYBS1 --out /tmp/bond.html --price 99.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			code := moex.NormalizeCode(args[0])
			formatFlag, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("out")

			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			var secID, shortName string
			start := time.Now()
			defer func() { app.record("report", code, secID, shortName, start, err) }()

			secID, err = resolveSecID(ctx, app, code)
			if err != nil {
				output.Error("Failed to resolve %s: %v", code, err)
				return err
			}

			issue, cashflow, err := app.Bonds.Info(ctx, secID)
			if err != nil {
				output.Error("Failed to fetch bond info: %v", err)
				return err
			}
			shortName = issue.ShortName()

			in := report.Input{
				Issue:    issue,
				Cashflow: cashflow,
			}

			// The yield section appears when a price is available and the
			// schedule determines the flows.
			if price, perr := resolvePrice(cmd, issue); perr == nil {
				valuation := app.Bonds.ValuationDate()
				result, yerr := bond.Yield(bond.YieldInput{
					Issue:     issue,
					Cashflow:  cashflow,
					Price:     price,
					Valuation: valuation,
				})
				if yerr == nil {
					ytm := result.YTM
					in.YTM = &ytm
					in.Price = price
					in.Valuation = valuation
				} else {
					app.Logger.Debug().Err(yerr).Str("secid", secID).Msg("yield omitted from report")
				}
			}

			data, err := report.Generate(in, report.Config{Format: format})
			if err != nil {
				output.Error("Failed to render report: %v", err)
				return err
			}

			if outPath == "" {
				outPath = filepath.Join(app.Config.Reports.OutputDir, secID+format.Ext())
			}
			if err = os.WriteFile(outPath, data, 0644); err != nil {
				output.Error("Failed to write report: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":   outPath,
					"format": string(format),
					"bytes":  len(data),
				})
			}
			output.Success("Wrote %s (%d bytes)", outPath, len(data))
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "html", "report format: html, text, csv, pdf")
	cmd.Flags().StringP("out", "o", "", "output file path (default: <secid>.<ext> in the reports dir)")
	cmd.Flags().Float64P("price", "p", 0, "clean price for the yield section (default: previous-day weighted average)")

	return cmd
}
