package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/vaultdeck"
)

var dryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync [config]",
	Short: "Synchronize the vault with Anki once",
	Long: `Scan the vault, send new, changed and deleted flashcards to Anki, and write
the identifiers of new cards back into the notes. Notes unchanged since the
last successful run are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfig(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := vaultdeck.Sync(ctx, path,
			vaultdeck.WithLogger(slog.Default()),
			vaultdeck.WithDryRun(dryRun),
		)
		if report != nil {
			printReport(cmd.OutOrStdout(), report)
		}
		return err
	},
}

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without touching Anki or the notes")
	rootCmd.AddCommand(syncCmd)
}
