package cli

import (
	"context"

	"github.com/spf13/cobra"

	"moex-bonds/internal/store"
)

// addJournalCommands adds the command journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed commands",
		Long: `List the most recent entries from the command journal, newest first.

The journal records info, yield, report and lookup invocations when
journaling is enabled in the config.`,
		Example: `  moexbond history
  moexbond history --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := app.Journal.Recent(ctx, limit)
			if err != nil {
				output.Error("Failed to read journal: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Dim("Journal is empty.")
				return nil
			}

			table := NewTable(output, "When", "Command", "Code", "SecID", "Name", "Outcome")
			for _, e := range entries {
				outcome := e.Outcome
				switch e.Outcome {
				case store.OutcomeOK:
					outcome = output.Green(e.Outcome)
				case store.OutcomeError:
					outcome = output.Red(e.Outcome)
				}
				table.AddRow(
					FormatDateTime(e.Timestamp),
					e.Command,
					e.Code,
					StringOrMissing(e.SecID),
					TruncateString(StringOrMissing(e.ShortName), 24),
					outcome,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntP("limit", "l", 20, "maximum number of entries to show")

	return cmd
}
