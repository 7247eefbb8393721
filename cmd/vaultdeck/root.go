package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/vaultdeck"
	"github.com/aretw0/vaultdeck/internal/platform"
)

var (
	verbose    bool
	debug      bool
	logLevel   string
	logFormat  string
	configPath string

	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vaultdeck",
	Short: "Sync flashcards written in an Obsidian vault to Anki",
	Long: `vaultdeck finds flashcards inside the Markdown notes of an Obsidian vault
and keeps them in sync with Anki through AnkiConnect.
Identifiers of created cards are written back into the notes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := platform.LogOptions{Level: logLevel, Format: logFormat}
		if verbose || debug {
			opts.Level = "debug"
		}
		if debug {
			opts.DebugFile = platform.DebugLogFile
		}

		logger, closer, err := platform.NewLogger(os.Stderr, opts)
		if err != nil {
			return err
		}
		logCloser = closer
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveConfig picks the configuration file: the positional argument, then
// --config, then the nearest vaultdeck.yaml above the working directory.
func resolveConfig(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if configPath != "" {
		return configPath, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := vaultdeck.FindConfig(cwd)
	if err != nil {
		return "", fmt.Errorf("no config given and %w in %s or its parents", err, cwd)
	}
	return path, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging, also written to "+platform.DebugLogFile)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
}
