/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skald/pkg/api"
	"github.com/ssargent/skald/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the skald REST API server.

Configuration is loaded from the config file when present; flags override
individual values. Without a config file the built-in defaults are used
and an ephemeral API key is generated and printed.

Examples:
  skald serve --api-key=mysecretkey --port=8080
  skald serve --config ./skald.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")

		cfg, err := resolveServerConfig(configPath, port, bind, apiKey)
		if err != nil {
			cmd.Printf("Error resolving configuration: %v\n", err)
			os.Exit(1)
		}

		// An unset key never starts an open server; generate and show one
		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			key, err := config.GenerateSecureKey(32)
			if err != nil {
				cmd.Printf("Error generating API key: %v\n", err)
				os.Exit(1)
			}
			cfg.Security.APIKey = key
			cmd.Printf("Generated ephemeral API key: %s\n", key)
		}

		serverConfig := api.ServerConfig{
			Port:            cfg.Port,
			Bind:            cfg.Bind,
			APIKey:          cfg.Security.APIKey,
			MaxRequestBytes: cfg.Limits.MaxRequestBytes,
		}

		if err := api.StartServer(serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for request authentication")
}

// resolveServerConfig loads the config file when present and applies flag
// overrides on top of it. Flags at their default values do not override.
func resolveServerConfig(configPath string, port int, bind, apiKey string) (*config.Config, error) {
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	var cfg *config.Config
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	// Override config with command line flags if provided
	if port != 8080 {
		cfg.Port = port
	}
	if bind != "127.0.0.1" {
		cfg.Bind = bind
	}
	if apiKey != "" {
		cfg.Security.APIKey = apiKey
	}

	return cfg, nil
}
