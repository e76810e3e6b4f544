package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abr-tools/abr-ingest/internal/extract"
)

// BundleStore persists a complete record bundle atomically. Either every row
// extracted from a document lands or none do.
type BundleStore struct {
	db *sql.DB
}

// NewBundleStore creates a bundle store over a live connection pool.
func NewBundleStore(db *sql.DB) *BundleStore {
	return &BundleStore{db: db}
}

// Save writes the bundle inside one transaction: the base entity row first
// (skipped when the ABN is already known), then every history table.
func (s *BundleStore) Save(ctx context.Context, bundle *extract.RecordBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bundle transaction: %w", err)
	}
	defer tx.Rollback()

	entities := NewEntityRepository(tx)
	history := NewHistoryRepository(tx)

	if err := entities.InsertIfAbsent(ctx, bundle.Entity); err != nil {
		return fmt.Errorf("insert entity %s: %w", bundle.Entity.ABN, err)
	}
	if err := history.InsertNameHistory(ctx, bundle.NameHistory); err != nil {
		return err
	}
	if err := history.InsertStatusHistory(ctx, bundle.StatusHistory); err != nil {
		return err
	}
	if err := history.InsertLocationHistory(ctx, bundle.LocationHistory); err != nil {
		return err
	}
	if err := history.InsertGSTHistory(ctx, bundle.GSTHistory); err != nil {
		return err
	}
	if err := history.InsertBusinessNames(ctx, bundle.BusinessNames); err != nil {
		return err
	}
	if err := history.InsertTradingNames(ctx, bundle.TradingNames); err != nil {
		return err
	}
	if err := history.InsertASICRegistrations(ctx, bundle.ASICRegistrations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bundle for %s: %w", bundle.Entity.ABN, err)
	}
	return nil
}
