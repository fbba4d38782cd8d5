/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skald/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the skald configuration file",
	Long: `Create the skald configuration file with a generated API key.

This command will:
- Create the configuration directory
- Write a config file with defaults and a fresh API key

Examples:
  skald init
  skald init --config ./skald.yaml --force`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error creating configuration: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Configuration created at %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  skald serve --config %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("data-dir", "", "Data directory to record in the config (default: ./data)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
