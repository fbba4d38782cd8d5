package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags
var version = "dev"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the skald version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("skald %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
