// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"moex-bonds/internal/bond"
	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
	"moex-bonds/pkg/utils"
)

func newYieldCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yield <code>",
		Short: "Compute yield to maturity at a clean price",
		Long: `Fetch the bond and compute the XIRR-style yield to maturity over its
payment calendar.

The price is the clean price in percent of face value. When --price is
omitted, the previous trading day's weighted-average price is used.
Bonds with embedded offers or unknown future coupons are refused.`,
		Example: `  moexbond yield RU000A0JXQ93 --price 98.5
  moexbond yield SU26238RMFS4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			code := moex.NormalizeCode(args[0])

			var secID, shortName string
			start := time.Now()
			defer func() { app.record("yield", code, secID, shortName, start, err) }()

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

			price, err := resolvePrice(cmd, issue)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			valuation := app.Bonds.ValuationDate()
			result, err := bond.Yield(bond.YieldInput{
				Issue:     issue,
				Cashflow:  cashflow,
				Price:     price,
				Valuation: valuation,
			})
			if err != nil {
				output.Error("Yield unavailable: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"secid":     secID,
					"shortname": shortName,
					"price":     price,
					"valuation": utils.FormatISSDate(valuation),
					"ytm":       result.YTM,
					"flows":     result.Flows,
				})
			}

			displayYield(output, issue, price, valuation, result)
			return nil
		},
	}

	cmd.Flags().Float64P("price", "p", 0, "clean price in percent of face value (default: previous-day weighted average)")

	return cmd
}

// resolvePrice returns the price flag when set, else the previous-day
// weighted-average price from the issue table.
func resolvePrice(cmd *cobra.Command, issue *models.Issue) (float64, error) {
	if cmd.Flags().Changed("price") {
		price, _ := cmd.Flags().GetFloat64("price")
		if price <= 0 {
			return 0, apperrors.NewValidationError("price", price,
				"price should be a positive percent of face value")
		}
		return price, nil
	}

	raw, ok := issue.Value("PREVWAPRICE")
	if !ok {
		return 0, apperrors.Wrapf(apperrors.ErrNoBoardData,
			"no previous-day price for %s, pass --price", issue.SecID())
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrNoBoardData,
			"no previous-day price for %s, pass --price", issue.SecID())
	}
	return price, nil
}

func displayYield(output *Output, issue *models.Issue, price float64, valuation time.Time, result bond.YieldResult) {
	output.Bold("%s", issue.ShortName())
	output.Println()

	output.Printf("  Доходность к погашению: %s\n", output.Green(fmt.Sprintf("%.2f%%", result.YTM)))
	output.Printf("  Цена:                   %.2f%% номинала\n", price)
	output.Printf("  Дата оценки:            %s\n", utils.FormatISSDate(valuation))
	output.Printf("  Будущих платежей:       %d\n", result.Flows)
}
