package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DocumentRegistry handles the source document registry.
type DocumentRegistry struct {
	db DB
}

// NewDocumentRegistry creates a new document registry repository.
func NewDocumentRegistry(db DB) *DocumentRegistry {
	return &DocumentRegistry{db: db}
}

// GetByHash retrieves a document by its content hash. Returns ErrNotFound
// when the hash has never been registered.
func (r *DocumentRegistry) GetByHash(ctx context.Context, fileHash string) (*SourceDocument, error) {
	query := `
		SELECT document_id, filename, file_hash_sha256, document_type,
			ingestion_status, error_message, ingested_at, created_at
		FROM abn_document_registry WHERE file_hash_sha256 = $1
	`
	doc := &SourceDocument{}
	err := r.db.QueryRowContext(ctx, query, fileHash).Scan(
		&doc.DocumentID, &doc.Filename, &doc.FileHashSHA256, &doc.DocumentType,
		&doc.IngestionStatus, &doc.ErrorMessage, &doc.IngestedAt, &doc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Register creates a new registry row in FAILED state. The status flips to
// SUCCESS only after the document's records commit.
func (r *DocumentRegistry) Register(ctx context.Context, filename, fileHash, docType string) (uuid.UUID, error) {
	docID := uuid.New()
	query := `
		INSERT INTO abn_document_registry
			(document_id, filename, file_hash_sha256, document_type, ingestion_status)
		VALUES ($1, $2, $3, $4, 'FAILED')
	`
	_, err := r.db.ExecContext(ctx, query, docID, filename, fileHash, docType)
	return docID, err
}

// UpdateStatus records the outcome and ingest time of a document.
func (r *DocumentRegistry) UpdateStatus(ctx context.Context, docID uuid.UUID, status IngestionStatus, errorMessage *string) error {
	query := `
		UPDATE abn_document_registry
		SET ingestion_status = $1, error_message = $2, ingested_at = $3
		WHERE document_id = $4
	`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, time.Now(), docID)
	return err
}
