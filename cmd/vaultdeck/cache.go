package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/vaultdeck"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the hash cache of processed notes",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [config]",
	Short: "Forget processed notes so the next sync scans the whole vault",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfig(args)
		if err != nil {
			return err
		}
		cachePath, err := vaultdeck.ClearCache(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cachePath)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
