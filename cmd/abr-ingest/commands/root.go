// Package commands implements the abr-ingest CLI.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abr-tools/abr-ingest/cmd/abr-ingest/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "abr-ingest",
	Short: "ABR document ingestion toolkit",
	Long: `abr-ingest loads Australian Business Register PDF extracts into a
relational store: it classifies each document, extracts the entity and its
history tables, and records every file in a dedup registry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; environment variables still apply.
		_ = godotenv.Load()
		ui.Init(noColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
