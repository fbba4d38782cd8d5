/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skald",
	Short: "Skald - byte and text transcoding toolkit",
	Long: `Skald transcodes bytes between raw, hexadecimal, percent-encoded and
run-length escaped representations, from the command line or over a REST API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global config file flag
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
}

// readInput returns the contents of the file named by the first argument,
// or all of stdin when no argument (or "-") is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// writeText writes a textual result to path, or to stdout with a trailing
// newline when path is empty.
func writeText(path, s string) error {
	if path == "" {
		fmt.Println(s)
		return nil
	}

	if err := os.WriteFile(path, []byte(s), 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeRaw writes a byte result verbatim to path, or to stdout when path
// is empty. No newline is appended; the bytes are the payload.
func writeRaw(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
