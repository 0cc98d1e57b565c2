package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "speechtracker",
	Short: "Toddler speech tracker backend",
	Long: `Tracks the words, phrases, songs and letters of each child and
reconciles them with a Google Sheets spreadsheet.

Runs the HTTP server when no subcommand is given.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
