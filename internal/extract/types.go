// Package extract implements the ABR document extraction engine: it turns the
// text of a "Current details" or "Historical details" PDF into a normalized
// bundle of registry records keyed by ABN.
package extract

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies which of the two known ABR document templates a
// text stream came from.
type DocumentType string

const (
	DocumentTypeCurrent    DocumentType = "CURRENT"
	DocumentTypeHistorical DocumentType = "HISTORICAL"
)

// Period is the normalized from/to span shared by all history rows. A row is
// current when its raw "to" text was empty, "none", or carried the
// "(current)" marker; in that case ToDate is nil.
type Period struct {
	FromDate  *time.Time
	ToDate    *time.Time
	IsCurrent bool
}

// Entity is the insert-once base record for a business.
type Entity struct {
	ABN                 string
	EntityName          string
	EntityType          string
	FirstActiveDate     *time.Time
	ABNLastUpdatedDate  *time.Time
	RecordExtractedDate *time.Time
	SourceDocumentID    uuid.UUID
}

// NameRow is one entity-name history record.
type NameRow struct {
	ABN              string
	EntityName       string
	Period
	SourceDocumentID uuid.UUID
}

// StatusRow is one ABN-status history record.
type StatusRow struct {
	ABN              string
	Status           string
	Period
	SourceDocumentID uuid.UUID
}

// LocationRow is one main-business-location history record.
type LocationRow struct {
	ABN              string
	State            string
	Postcode         string
	Period
	SourceDocumentID uuid.UUID
}

// GSTRow is one GST-registration history record.
type GSTRow struct {
	ABN              string
	GSTStatus        string
	Period
	SourceDocumentID uuid.UUID
}

// BusinessNameRow records the presence of a registered business name. Current
// documents report these without a To column, so there is no period.
type BusinessNameRow struct {
	ABN              string
	BusinessName     string
	FromDate         *time.Time
	SourceDocumentID uuid.UUID
}

// TradingNameRow records a trading name. Historical documents date these with
// a full From/To span; current documents only report presence, leaving
// IsCurrent nil.
type TradingNameRow struct {
	ABN              string
	TradingName      string
	FromDate         *time.Time
	ToDate           *time.Time
	IsCurrent        *bool
	SourceDocumentID uuid.UUID
}

// ASICRow links the ABN to an ASIC registration number.
type ASICRow struct {
	ABN              string
	ASICNumber       string
	ASICType         string
	SourceDocumentID uuid.UUID
}

// RecordBundle is the full set of records extracted from one document. Every
// nested row is stamped with the owning ABN and source document id before the
// bundle is handed to the persistence layer.
type RecordBundle struct {
	Type              DocumentType
	Entity            Entity
	NameHistory       []NameRow
	StatusHistory     []StatusRow
	LocationHistory   []LocationRow
	GSTHistory        []GSTRow
	BusinessNames     []BusinessNameRow
	TradingNames      []TradingNameRow
	ASICRegistrations []ASICRow
}
