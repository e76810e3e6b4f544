package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abr-tools/abr-ingest/cmd/abr-ingest/ui"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Apply pending database migrations",
	RunE:  runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	spin := ui.NewSpinner("applying migrations")
	spin.Start()
	applied, err := storage.NewMigrator(db).Run(ctx)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if len(applied) == 0 {
		ui.Info("schema already up to date")
		return nil
	}
	for _, name := range applied {
		ui.Success("applied %s", name)
	}
	return nil
}
