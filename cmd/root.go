// Package cmd holds the openbnf command line: the web server, the seed
// importer and the name index dump.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/giygas/openbnf/config"
)

var rootCmd = &cobra.Command{
	Use:   "openbnf",
	Short: "Drug formulary web site and JSON API",
	Long: `openbnf serves a searchable drug formulary as web pages and a JSON API.

Run without a subcommand it starts the web server, like "openbnf serve".

Configuration is read from the environment and from a .env file in the
working directory:
  ` + strings.Join(config.GetEnvVars(), "\n  "),
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadEnvFile)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(namesCmd)
}

// loadEnvFile reads .env when present. The environment always wins.
func loadEnvFile() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}
}
