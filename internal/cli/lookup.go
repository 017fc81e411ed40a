// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
)

func newLookupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <code>",
		Short: "Resolve an ISIN to its SECID or back",
		Long: `Resolve an ISIN to the exchange SECID through the securities directory.
With --reverse, resolve a SECID back to its ISIN.`,
		Example: `  moexbond lookup RU000A0JXQ93
  moexbond lookup SU26238RMFS4 --reverse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			code := moex.NormalizeCode(args[0])
			reverse, _ := cmd.Flags().GetBool("reverse")

			direction := models.ISINToSecID
			if reverse {
				direction = models.SecIDToISIN
			}

			var resolved string
			start := time.Now()
			defer func() { app.record("lookup", code, resolved, "", start, err) }()

			resolved, err = app.ISS.Lookup(ctx, code, direction)
			if err != nil {
				output.Error("Lookup failed: %v", err)
				return err
			}

			if output.IsJSON() {
				key := "secid"
				if reverse {
					key = "isin"
				}
				return output.JSON(map[string]string{"code": code, key: resolved})
			}
			output.Println(resolved)
			return nil
		},
	}

	cmd.Flags().BoolP("reverse", "r", false, "resolve SECID to ISIN")

	return cmd
}
