package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/abr-tools/abr-ingest/internal/extract"
)

// HistoryRepository bulk-inserts the per-attribute history tables. Each
// method is a no-op on an empty slice so callers never branch.
type HistoryRepository struct {
	db DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertNameHistory writes entity-name history rows.
func (r *HistoryRepository) InsertNameHistory(ctx context.Context, rows []extract.NameRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ABN, row.EntityName, row.FromDate, row.ToDate, row.IsCurrent, row.SourceDocumentID,
		}
	}
	return r.bulkInsert(ctx, "abn_name_history",
		[]string{"abn", "entity_name", "from_date", "to_date", "is_current", "source_document_id"},
		values)
}

// InsertStatusHistory writes ABN-status history rows.
func (r *HistoryRepository) InsertStatusHistory(ctx context.Context, rows []extract.StatusRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ABN, row.Status, row.FromDate, row.ToDate, row.IsCurrent, row.SourceDocumentID,
		}
	}
	return r.bulkInsert(ctx, "abn_status_history",
		[]string{"abn", "status", "from_date", "to_date", "is_current", "source_document_id"},
		values)
}

// InsertLocationHistory writes main-business-location history rows.
func (r *HistoryRepository) InsertLocationHistory(ctx context.Context, rows []extract.LocationRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ABN, row.State, row.Postcode, row.FromDate, row.ToDate, row.IsCurrent, row.SourceDocumentID,
		}
	}
	return r.bulkInsert(ctx, "abn_location_history",
		[]string{"abn", "state", "postcode", "from_date", "to_date", "is_current", "source_document_id"},
		values)
}

// InsertGSTHistory writes GST-registration history rows.
func (r *HistoryRepository) InsertGSTHistory(ctx context.Context, rows []extract.GSTRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ABN, row.GSTStatus, row.FromDate, row.ToDate, row.IsCurrent, row.SourceDocumentID,
		}
	}
	return r.bulkInsert(ctx, "abn_gst_history",
		[]string{"abn", "gst_status", "from_date", "to_date", "is_current", "source_document_id"},
		values)
}

// InsertBusinessNames writes business-name presence rows.
func (r *HistoryRepository) InsertBusinessNames(ctx context.Context, rows []extract.BusinessNameRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{row.ABN, row.BusinessName, row.FromDate, row.SourceDocumentID}
	}
	return r.bulkInsert(ctx, "abn_business_name",
		[]string{"abn", "business_name", "from_date", "source_document_id"},
		values)
}

// InsertTradingNames writes trading-name rows. IsCurrent stays NULL for rows
// that only record presence.
func (r *HistoryRepository) InsertTradingNames(ctx context.Context, rows []extract.TradingNameRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ABN, row.TradingName, row.FromDate, row.ToDate, row.IsCurrent, row.SourceDocumentID,
		}
	}
	return r.bulkInsert(ctx, "abn_trading_name",
		[]string{"abn", "trading_name", "from_date", "to_date", "is_current", "source_document_id"},
		values)
}

// InsertASICRegistrations writes ASIC registration links.
func (r *HistoryRepository) InsertASICRegistrations(ctx context.Context, rows []extract.ASICRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{row.ABN, row.ASICNumber, row.ASICType, row.SourceDocumentID}
	}
	return r.bulkInsert(ctx, "abn_asic_registration",
		[]string{"abn", "asic_number", "asic_type", "source_document_id"},
		values)
}

// bulkInsert issues one multi-row INSERT with expanded placeholders.
func (r *HistoryRepository) bulkInsert(ctx context.Context, table string, columns []string, values [][]interface{}) error {
	placeholders := make([]string, len(values))
	args := make([]interface{}, 0, len(values)*len(columns))
	for i, row := range values {
		ph := make([]string, len(columns))
		for j, v := range row {
			ph[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, v)
		}
		placeholders[i] = "(" + strings.Join(ph, ", ") + ")"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("bulk insert into %s: %w", table, err)
	}
	return nil
}
