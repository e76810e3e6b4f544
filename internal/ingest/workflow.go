// Package ingest drives the document ingestion pipeline: hash, dedup,
// extract, persist, and record the outcome in the document registry.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abr-tools/abr-ingest/internal/extract"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

// TextSource turns a file on disk into plain text. Production uses the PDF
// extractor; tests substitute canned text.
type TextSource interface {
	Text(path string) (string, error)
}

// Registry is the slice of the document registry the workflow needs.
type Registry interface {
	GetByHash(ctx context.Context, fileHash string) (*storage.SourceDocument, error)
	Register(ctx context.Context, filename, fileHash, docType string) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, docID uuid.UUID, status storage.IngestionStatus, errorMessage *string) error
}

// BundleStore persists one extracted record bundle atomically.
type BundleStore interface {
	Save(ctx context.Context, bundle *extract.RecordBundle) error
}

// Downloader acquires source PDFs into a local directory. Acquisition runs
// out of band; the workflow only consumes what is already on disk.
type Downloader interface {
	Download(ctx context.Context, dir string) (int, error)
}

// Outcome classifies the result of processing one file.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// FileResult reports what happened to one file.
type FileResult struct {
	Path       string
	Outcome    Outcome
	DocumentID uuid.UUID
	ABN        string
	Err        error
}

// Workflow ingests ABR documents one file at a time.
type Workflow struct {
	texts    TextSource
	registry Registry
	store    BundleStore
	logger   zerolog.Logger
}

// NewWorkflow creates an ingestion workflow.
func NewWorkflow(texts TextSource, registry Registry, store BundleStore, logger zerolog.Logger) *Workflow {
	return &Workflow{
		texts:    texts,
		registry: registry,
		store:    store,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// ProcessFile runs the full pipeline for one file. A file whose hash is
// already registered is skipped regardless of its previous outcome. Any
// failure after registration leaves a FAILED registry row carrying the
// error; the status flips to SUCCESS only after the bundle commits.
func (w *Workflow) ProcessFile(ctx context.Context, path string) FileResult {
	filename := filepath.Base(path)
	log := w.logger.With().Str("file", filename).Logger()

	fileHash, err := FileSHA256(path)
	if err != nil {
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: err}
	}

	existing, err := w.registry.GetByHash(ctx, fileHash)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: fmt.Errorf("registry lookup: %w", err)}
	}
	if existing != nil {
		log.Info().
			Str("status", string(existing.IngestionStatus)).
			Msg("skipping file, hash already registered")
		return FileResult{Path: path, Outcome: OutcomeSkipped, DocumentID: existing.DocumentID}
	}

	text, textErr := w.texts.Text(path)

	// Classification from content is authoritative. The filename convention
	// only supplies a type for the registry row when the content gives none.
	docType, classifyErr := extract.Classify(text)
	if classifyErr != nil {
		docType = typeFromFilename(filename)
	}

	docID, err := w.registry.Register(ctx, filename, fileHash, string(docType))
	if err != nil {
		if storage.IsUniqueViolation(err) {
			// A concurrent worker registered the same hash first.
			log.Info().Msg("skipping file, registered concurrently")
			return FileResult{Path: path, Outcome: OutcomeSkipped}
		}
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: fmt.Errorf("register document: %w", err)}
	}

	if textErr != nil {
		return w.fail(ctx, log, path, docID, fmt.Errorf("extract text: %w", textErr))
	}
	if classifyErr != nil {
		return w.fail(ctx, log, path, docID, classifyErr)
	}

	bundle, err := extract.ForType(docType).Extract(text, docID)
	if err != nil {
		return w.fail(ctx, log, path, docID, err)
	}

	if err := w.store.Save(ctx, bundle); err != nil {
		return w.fail(ctx, log, path, docID, err)
	}

	if err := w.registry.UpdateStatus(ctx, docID, storage.IngestionStatusSuccess, nil); err != nil {
		return w.fail(ctx, log, path, docID, fmt.Errorf("mark success: %w", err))
	}

	log.Info().
		Str("abn", bundle.Entity.ABN).
		Str("type", string(docType)).
		Msg("ingested file")
	return FileResult{Path: path, Outcome: OutcomeSuccess, DocumentID: docID, ABN: bundle.Entity.ABN}
}

// fail records the error on the registry row and reports a failed result.
func (w *Workflow) fail(ctx context.Context, log zerolog.Logger, path string, docID uuid.UUID, cause error) FileResult {
	log.Error().Err(cause).Msg("ingestion failed")

	msg := cause.Error()
	if err := w.registry.UpdateStatus(ctx, docID, storage.IngestionStatusFailed, &msg); err != nil {
		log.Error().Err(err).Msg("failed to record ingestion error")
	}
	return FileResult{Path: path, Outcome: OutcomeFailed, DocumentID: docID, Err: cause}
}

// typeFromFilename guesses the document variant from the download naming
// convention. Used only when classification from content fails.
func typeFromFilename(filename string) extract.DocumentType {
	if strings.Contains(filename, "Current_details") {
		return extract.DocumentTypeCurrent
	}
	return extract.DocumentTypeHistorical
}
