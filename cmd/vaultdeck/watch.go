package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/vaultdeck"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [config]",
	Short: "Keep Anki in sync while the vault changes",
	Long: `Run a sync, then run it again every time notes change, until interrupted.
A failed run is reported and watching continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfig(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching vault, press Ctrl+C to stop.")
		return vaultdeck.Watch(ctx, path, func(report *vaultdeck.Report, err error) {
			if report != nil && (err != nil || report.Changed > 0) {
				printReport(out, report)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: sync failed: %v\n", err)
			}
		},
			vaultdeck.WithLogger(slog.Default()),
			vaultdeck.WithDebounce(debounce),
		)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Quiet period before a change triggers a sync")
	rootCmd.AddCommand(watchCmd)
}
