package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/vaultdeck"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vaultdeck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vaultdeck version %s\n", strings.TrimSpace(vaultdeck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
