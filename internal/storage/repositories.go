// Package storage provides the database models and repositories for the ABR
// ingestion service.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB represents a database connection interface. Both *sql.DB and *sql.Tx
// satisfy it, so repositories run unchanged inside or outside a transaction.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Concurrent ingests of the same file race on the hash constraint
// and the loser treats this as an already-ingested document.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Repositories bundles all repositories over one connection.
type Repositories struct {
	Registry *DocumentRegistry
	Entities *EntityRepository
	History  *HistoryRepository
	Reports  *ReportRepository
}

// NewRepositories creates a repository bundle backed by db.
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Registry: NewDocumentRegistry(db),
		Entities: NewEntityRepository(db),
		History:  NewHistoryRepository(db),
		Reports:  NewReportRepository(db),
	}
}
