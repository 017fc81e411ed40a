// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moex-bonds/internal/bond"
	"moex-bonds/internal/config"
	"moex-bonds/internal/logging"
	"moex-bonds/internal/moex"
	"moex-bonds/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-21"
)

// commandTimeout bounds one command invocation end to end.
const commandTimeout = 30 * time.Second

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	ISS     moex.ISS
	Bonds   *bond.Service
	Journal store.Journal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	client := moex.NewClient(moex.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout(),
		UserAgent: cfg.API.UserAgent,
	}, logger)
	app.ISS = client
	app.Bonds = bond.NewService(client, logger)

	// Initialize the SQLite journal
	app.Journal = store.NopJournal{}
	if cfg.Journal.Enabled {
		journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize journal, commands will not be recorded")
		} else {
			app.Journal = journal
			logger.Debug().Msg("SQLite journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "moexbond",
		Short: "MOEX bond viewer - issue data, payment calendar and yield",
		Long: `moexbond fetches bond reference and trading data from the Moscow
Exchange ISS API and shapes it into an issue table and a chronological
payment calendar.

It can compute the yield to maturity at a given clean price and write a
report file in HTML, text, CSV or PDF form.

Use 'moexbond help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/moexbond)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addBondCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// record logs a completed command and appends it to the audit journal.
// Journaling is best effort; failures only warn.
func (app *App) record(command, code, secID, shortName string, started time.Time, err error) {
	logging.LogCommand(app.Logger, command, code, time.Since(started), err)

	outcome := store.OutcomeOK
	if err != nil {
		outcome = store.OutcomeError
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jerr := app.Journal.Append(ctx, store.Entry{
		Timestamp: started,
		Command:   command,
		Code:      code,
		SecID:     secID,
		ShortName: shortName,
		Outcome:   outcome,
	})
	if jerr != nil {
		app.Logger.Warn().Err(jerr).Msg("Failed to record journal entry")
	}
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("moexbond v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")

			path, err := config.WriteTemplate(configDir)
			if err != nil {
				output.Error("Failed to write config template: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			color.Green("✓ Wrote %s", path)
			color.Yellow("💡 Edit it, or run 'moexbond config show' to see the effective settings")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := config.FilePath(app.Config.Dir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	return cmd
}

func showConfig(cfg *config.Config) {
	fmt.Println()
	color.Cyan("⚙ API")
	fmt.Println("─────────────────────────────────────────")
	fmt.Printf("Base URL:   %s\n", cfg.API.BaseURL)
	fmt.Printf("Timeout:    %ds\n", cfg.API.TimeoutSeconds)
	fmt.Printf("User-Agent: %s\n", cfg.API.UserAgent)
	fmt.Println()

	color.Cyan("⚙ Reports")
	fmt.Println("─────────────────────────────────────────")
	fmt.Printf("Output dir: %s\n", cfg.Reports.OutputDir)
	fmt.Println()

	color.Cyan("⚙ Journal")
	fmt.Println("─────────────────────────────────────────")
	fmt.Printf("Enabled:    %v\n", cfg.Journal.Enabled)
	fmt.Printf("Path:       %s\n", cfg.Journal.Path)
	fmt.Println()

	color.Cyan("⚙ Logging")
	fmt.Println("─────────────────────────────────────────")
	fmt.Printf("Level:      %s\n", cfg.Logging.Level)
	fmt.Printf("File:       %s\n", cfg.Logging.File)
	fmt.Printf("Console:    %v\n", cfg.Logging.Console)
}
