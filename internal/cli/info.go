// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
)

// addBondCommands adds the bond data commands.
func addBondCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newInfoCmd(app))
	rootCmd.AddCommand(newYieldCmd(app))
	rootCmd.AddCommand(newLookupCmd(app))
}

func newInfoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <code>",
		Short: "Show a bond's issue data and payment calendar",
		Long: `Fetch reference and trading data for a bond and display the issue
table followed by the chronological payment calendar.

The code may be an ISIN or a SECID; ISINs are resolved through the
securities directory first.`,
		Example: `  moexbond info RU000A0JXQ93
  moexbond info SU26238RMFS4 --no-cashflow
  moexbond info RU000A0ZYBS1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			code := moex.NormalizeCode(args[0])
			noCashflow, _ := cmd.Flags().GetBool("no-cashflow")
			limit, _ := cmd.Flags().GetInt("limit")

			var secID, shortName string
			start := time.Now()
			defer func() { app.record("info", code, secID, shortName, start, err) }()

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

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"issue":    issue,
					"cashflow": cashflow,
				})
			}

			displayIssue(output, issue)
			if !noCashflow {
				output.Println()
				displayCashflow(output, cashflow, limit)
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-cashflow", false, "show only the issue table")
	cmd.Flags().IntP("limit", "l", 0, "limit payment calendar rows (0 for all)")

	return cmd
}

// resolveSecID resolves a user-entered code to a SECID through the
// securities directory: exact ISIN match first, then exact SECID match.
func resolveSecID(ctx context.Context, app *App, code string) (string, error) {
	if err := moex.ValidateCode(code); err != nil {
		return "", err
	}

	matches, err := app.ISS.Search(ctx, code)
	if err != nil {
		return "", err
	}

	for _, m := range matches {
		if m.ISIN == code {
			return m.SecID, nil
		}
	}
	for _, m := range matches {
		if m.SecID == code {
			return m.SecID, nil
		}
	}
	return "", apperrors.Wrapf(apperrors.ErrSecurityNotFound, "no security matches %s", code)
}

func displayIssue(output *Output, issue *models.Issue) {
	output.Bold("%s", issue.ShortName())
	output.Println()

	table := NewTable(output, "Параметр", "Значение")
	for _, r := range issue.Rows {
		table.AddRow(r.Label, r.Value)
	}
	table.Render()
}

func displayCashflow(output *Output, cashflow *models.Cashflow, limit int) {
	output.Bold("Платежный календарь: %s", cashflow.Title)
	output.Printf("  событий: %d\n\n", len(cashflow.Rows))

	hasNominal := false
	for _, r := range cashflow.Rows {
		if r.Nominal.Valid {
			hasNominal = true
			break
		}
	}

	headers := []string{"#", "Дата", "Купон", "Погашение", "Оферта", "Тип оферты"}
	if hasNominal {
		headers = append(headers, "Остаток номинала")
	}
	table := NewTable(output, headers...)

	rows := cashflow.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i, r := range rows {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			FormatDate(r.Date),
			FormatAmount(r.Coupon),
			FormatAmount(r.Amort),
			FormatAmount(r.Offer),
			StringOrMissing(r.OfferType),
		}
		if hasNominal {
			cells = append(cells, FormatAmount(r.Nominal))
		}
		table.AddRow(cells...)
	}
	table.Render()

	if limit > 0 && len(cashflow.Rows) > limit {
		output.Dim("showing %d of %d rows", limit, len(cashflow.Rows))
	}
}
