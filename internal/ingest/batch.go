package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Stats accumulates the outcome counters of one batch run.
type Stats struct {
	Success int
	Failed  int
	Skipped int
}

// Total is the number of files the batch touched.
func (s Stats) Total() int {
	return s.Success + s.Failed + s.Skipped
}

func (s *Stats) add(outcome Outcome) {
	switch outcome {
	case OutcomeSuccess:
		s.Success++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Pattern is the glob matched against filenames in the directory.
	Pattern string
	// Workers caps concurrent file processing. Values below 1 mean serial.
	Workers int
	// OnResult, when set, observes each file result as it completes.
	OnResult func(FileResult)
}

// ProcessDirectory ingests every matching file in dir through a worker pool.
// One bad file never aborts the batch; it is counted and the rest proceed.
func (w *Workflow) ProcessDirectory(ctx context.Context, dir string, opts BatchOptions) (Stats, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "ABN*.pdf"
	}

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return Stats{}, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)

	w.logger.Info().
		Str("dir", dir).
		Str("pattern", pattern).
		Int("files", len(files)).
		Msg("starting batch ingestion")

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	results := make(chan FileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- w.ProcessFile(ctx, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var stats Stats
	for result := range results {
		stats.add(result.Outcome)
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
	}

	w.logger.Info().
		Int("success", stats.Success).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("batch ingestion complete")

	return stats, ctx.Err()
}
