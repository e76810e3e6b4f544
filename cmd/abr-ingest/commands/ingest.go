package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abr-tools/abr-ingest/cmd/abr-ingest/ui"
	"github.com/abr-tools/abr-ingest/internal/ingest"
	"github.com/abr-tools/abr-ingest/internal/observability"
	"github.com/abr-tools/abr-ingest/internal/pdftext"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

var (
	ingestDir     string
	ingestPattern string
	ingestWorkers int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a directory of ABR PDF extracts",
	Long: `Scan a directory for ABR PDF extracts and load each one into the
database. Files whose content hash is already registered are skipped, so
re-running over the same directory is safe.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "directory containing ABR PDFs (default from config)")
	ingestCmd.Flags().StringVar(&ingestPattern, "pattern", "", "filename glob (default from config)")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent files (default from config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dir := ingestDir
	if dir == "" {
		dir = cfg.Ingestion.DownloadDir
	}
	pattern := ingestPattern
	if pattern == "" {
		pattern = cfg.Ingestion.FilePattern
	}
	workers := ingestWorkers
	if workers < 1 {
		workers = cfg.Ingestion.MaxConcurrentJobs
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "abr-ingest",
	})

	ui.Section("Batch Ingestion")
	ui.KeyValue("Directory", dir)
	ui.KeyValue("Pattern", pattern)
	ui.KeyValue("Workers", fmt.Sprintf("%d", workers))

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return fmt.Errorf("scan directory: %w", err)
	}
	if len(matches) == 0 {
		ui.Warning("no files matching %s in %s", pattern, dir)
		return nil
	}

	repos := storage.NewRepositories(db)
	workflow := ingest.NewWorkflow(
		pdftext.New(),
		repos.Registry,
		storage.NewBundleStore(db),
		logger,
	)

	bar := ui.NewProgressBar(int64(len(matches)), "ingesting")
	stats, err := workflow.ProcessDirectory(ctx, dir, ingest.BatchOptions{
		Pattern: pattern,
		Workers: workers,
		OnResult: func(r ingest.FileResult) {
			bar.Add(1)
			if verbose && r.Err != nil {
				ui.Error("%s: %v", filepath.Base(r.Path), r.Err)
			}
		},
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("batch ingestion: %w", err)
	}

	ui.Success("ingested %d files", stats.Success)
	if stats.Skipped > 0 {
		ui.Info("skipped %d already-registered files", stats.Skipped)
	}
	if stats.Failed > 0 {
		ui.Warning("%d files failed, see registry error messages", stats.Failed)
		os.Exit(1)
	}
	return nil
}
