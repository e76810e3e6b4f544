package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abr-tools/abr-ingest/cmd/abr-ingest/ui"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show ingestion and entity statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	stats, err := storage.NewReportRepository(db).DashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	ui.Section("Registry")
	ui.KeyValue("Entities", fmt.Sprintf("%d", stats.TotalEntities))
	ui.KeyValue("Documents", fmt.Sprintf("%d", stats.TotalDocuments))
	for status, count := range stats.DocumentStatus {
		ui.KeyValue("  "+status, fmt.Sprintf("%d", count))
	}
	ui.KeyValue("GST registrations", fmt.Sprintf("%d current / %d total", stats.GSTCurrent, stats.GSTTotal))

	if len(stats.EntityTypes) > 0 {
		ui.Section("Entity Types")
		rows := make([][]string, len(stats.EntityTypes))
		for i, c := range stats.EntityTypes {
			rows[i] = []string{c.Label, fmt.Sprintf("%d", c.Count)}
		}
		ui.Table([]string{"Category", "Count"}, rows)
	}

	if len(stats.StateDistribution) > 0 {
		ui.Section("Current Locations")
		rows := make([][]string, len(stats.StateDistribution))
		for i, c := range stats.StateDistribution {
			rows[i] = []string{c.Label, fmt.Sprintf("%d", c.Count)}
		}
		ui.Table([]string{"State", "Count"}, rows)
	}

	return nil
}
