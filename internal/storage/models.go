package storage

import (
	"time"

	"github.com/google/uuid"
)

// IngestionStatus tracks the lifecycle of a registered source document.
// Documents are registered FAILED and flipped to SUCCESS only after their
// extracted records commit, so a crash mid-ingest leaves an honest row.
type IngestionStatus string

const (
	IngestionStatusFailed  IngestionStatus = "FAILED"
	IngestionStatusSuccess IngestionStatus = "SUCCESS"
)

// SourceDocument is one row of the document registry. FileHashSHA256 is
// unique; it is the dedup key for the whole pipeline.
type SourceDocument struct {
	DocumentID      uuid.UUID
	Filename        string
	FileHashSHA256  string
	DocumentType    string
	IngestionStatus IngestionStatus
	ErrorMessage    *string
	IngestedAt      *time.Time
	CreatedAt       time.Time
}

// EntityRecord is the insert-once base row for a business, keyed by ABN.
type EntityRecord struct {
	ABN                 string
	EntityName          *string
	EntityType          *string
	FirstActiveDate     *time.Time
	ABNLastUpdatedDate  *time.Time
	RecordExtractedDate *time.Time
	SourceDocumentID    uuid.UUID
	CreatedAt           time.Time
}

// CategoryCount pairs a grouping label with its row count.
type CategoryCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DashboardStats is the summary block served on the stats endpoint.
type DashboardStats struct {
	TotalEntities     int64            `json:"total_entities"`
	TotalDocuments    int64            `json:"total_documents"`
	DocumentStatus    map[string]int64 `json:"document_status"`
	EntityTypes       []CategoryCount  `json:"entity_types"`
	StateDistribution []CategoryCount  `json:"state_distribution"`
	GSTCurrent        int64            `json:"gst_current"`
	GSTTotal          int64            `json:"gst_total"`
}

// EntitySummary is one search hit: the entity joined with its current
// location, when one exists.
type EntitySummary struct {
	ABN             string     `json:"abn"`
	EntityName      *string    `json:"entity_name"`
	EntityType      *string    `json:"entity_type"`
	FirstActiveDate *time.Time `json:"first_active_date"`
	State           *string    `json:"state"`
	Postcode        *string    `json:"postcode"`
}

// SearchResult is a page of entity summaries plus the unpaged total.
type SearchResult struct {
	Total   int64           `json:"total"`
	Results []EntitySummary `json:"results"`
}

// SearchFilter narrows an entity search. Zero values mean "not filtered".
type SearchFilter struct {
	Query      string
	EntityType string
	State      string
	Limit      int
	Offset     int
}

// HistoryEntry is one dated span from any of the history tables.
type HistoryEntry struct {
	Label     string     `json:"label"`
	FromDate  *time.Time `json:"from_date"`
	ToDate    *time.Time `json:"to_date"`
	IsCurrent bool       `json:"is_current"`
}

// LocationEntry is one main-business-location span.
type LocationEntry struct {
	State     string     `json:"state"`
	Postcode  string     `json:"postcode"`
	FromDate  *time.Time `json:"from_date"`
	ToDate    *time.Time `json:"to_date"`
	IsCurrent bool       `json:"is_current"`
}

// NamedDate is a name with its registration date.
type NamedDate struct {
	Name     string     `json:"name"`
	FromDate *time.Time `json:"from_date"`
}

// ASICEntry is one ASIC registration link.
type ASICEntry struct {
	ASICNumber string `json:"asic_number"`
	ASICType   string `json:"asic_type"`
}

// EntityProfile is the complete picture of one ABN across all tables.
type EntityProfile struct {
	Entity           EntityRecord    `json:"entity"`
	NameHistory      []HistoryEntry  `json:"name_history"`
	StatusHistory    []HistoryEntry  `json:"status_history"`
	LocationHistory  []LocationEntry `json:"location_history"`
	GSTHistory       []HistoryEntry  `json:"gst_history"`
	BusinessNames    []NamedDate     `json:"business_names"`
	TradingNames     []NamedDate     `json:"trading_names"`
	ASICRegistration []ASICEntry     `json:"asic_registration"`
}

// YearCount is one year's registration volume.
type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// NameReuse reports a trading name shared by more than one ABN.
type NameReuse struct {
	TradingName string `json:"trading_name"`
	ABNCount    int64  `json:"abn_count"`
}

// EntityChurn reports an entity with more than one recorded location.
type EntityChurn struct {
	ABN             string  `json:"abn"`
	EntityName      *string `json:"entity_name"`
	LocationChanges int64   `json:"location_changes"`
}

// AnalyticsData backs the analytics endpoint.
type AnalyticsData struct {
	ByYear           []YearCount   `json:"by_year"`
	TradingNameReuse []NameReuse   `json:"trading_name_reuse"`
	LocationChanges  []EntityChurn `json:"location_changes"`
}
