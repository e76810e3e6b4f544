package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/abr-tools/abr-ingest/internal/extract"
)

// EntityRepository handles the insert-once entity table.
type EntityRepository struct {
	db DB
}

// NewEntityRepository creates a new entity repository.
func NewEntityRepository(db DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// InsertIfAbsent writes the base entity row unless the ABN already exists.
// The first document to mention an ABN wins; later documents only add
// history rows.
func (r *EntityRepository) InsertIfAbsent(ctx context.Context, e extract.Entity) error {
	query := `
		INSERT INTO abn_entity
			(abn, entity_name, entity_type, first_active_date,
			 abn_last_updated_date, record_extracted_date, source_document_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (abn) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ABN, nilIfEmpty(e.EntityName), nilIfEmpty(e.EntityType),
		e.FirstActiveDate, e.ABNLastUpdatedDate, e.RecordExtractedDate,
		e.SourceDocumentID,
	)
	return err
}

// GetByABN retrieves the base entity row.
func (r *EntityRepository) GetByABN(ctx context.Context, abn string) (*EntityRecord, error) {
	query := `
		SELECT abn, entity_name, entity_type, first_active_date,
			abn_last_updated_date, record_extracted_date, source_document_id, created_at
		FROM abn_entity WHERE abn = $1
	`
	rec := &EntityRecord{}
	err := r.db.QueryRowContext(ctx, query, abn).Scan(
		&rec.ABN, &rec.EntityName, &rec.EntityType, &rec.FirstActiveDate,
		&rec.ABNLastUpdatedDate, &rec.RecordExtractedDate, &rec.SourceDocumentID,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// nilIfEmpty maps "" to SQL NULL so absent values never masquerade as data.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
