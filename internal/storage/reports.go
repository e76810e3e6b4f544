package storage

import (
	"context"
	"fmt"
	"strings"
)

// highLevelCategorySQL folds the free-text entity type into the handful of
// categories the dashboard charts.
const highLevelCategorySQL = `
	CASE
		WHEN entity_type ILIKE '%individual%' OR entity_type ILIKE '%sole trader%' THEN 'Individual / Sole Trader'
		WHEN entity_type ILIKE '%partnership%' THEN 'Partnership'
		WHEN entity_type ILIKE '%trust%' THEN 'Trust'
		WHEN entity_type ILIKE '%company%' OR entity_type ILIKE '%pty%' OR entity_type ILIKE '%ltd%' THEN 'Company'
		WHEN entity_type ILIKE '%super%' OR entity_type ILIKE '%fund%' THEN 'Superannuation Fund'
		ELSE 'Other'
	END
`

// ReportRepository serves the read-only reporting queries.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DashboardStats aggregates the summary counters for the stats endpoint.
func (r *ReportRepository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{DocumentStatus: map[string]int64{}}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM abn_entity").Scan(&stats.TotalEntities); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM abn_document_registry").Scan(&stats.TotalDocuments); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ingestion_status, COUNT(*)
		FROM abn_document_registry
		GROUP BY ingestion_status
	`)
	if err != nil {
		return nil, fmt.Errorf("document status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.DocumentStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.EntityTypes, err = r.categoryCounts(ctx, fmt.Sprintf(`
		SELECT %s AS entity_type, COUNT(*)
		FROM abn_entity
		GROUP BY %s
		ORDER BY COUNT(*) DESC
	`, highLevelCategorySQL, highLevelCategorySQL))
	if err != nil {
		return nil, fmt.Errorf("entity type distribution: %w", err)
	}

	stats.StateDistribution, err = r.categoryCounts(ctx, `
		SELECT state, COUNT(*)
		FROM abn_location_history
		WHERE is_current = true
		GROUP BY state
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("state distribution: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN is_current THEN 1 ELSE 0 END), 0), COUNT(*)
		FROM abn_gst_history
	`).Scan(&stats.GSTCurrent, &stats.GSTTotal)
	if err != nil {
		return nil, fmt.Errorf("gst summary: %w", err)
	}

	return stats, nil
}

func (r *ReportRepository) categoryCounts(ctx context.Context, query string) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Search finds entities by name, ABN, trading name, or business name, with
// optional type and state filters.
func (r *ReportRepository) Search(ctx context.Context, filter SearchFilter) (*SearchResult, error) {
	var conditions []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		term := "%" + filter.Query + "%"
		p1, p2, p3, p4 := next(term), next(term), next(term), next(term)
		conditions = append(conditions, fmt.Sprintf(`
			(e.entity_name ILIKE %s
			 OR e.abn LIKE %s
			 OR EXISTS (SELECT 1 FROM abn_trading_name t WHERE t.abn = e.abn AND t.trading_name ILIKE %s)
			 OR EXISTS (SELECT 1 FROM abn_business_name b WHERE b.abn = e.abn AND b.business_name ILIKE %s))
		`, p1, p2, p3, p4))
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "e.entity_type = "+next(filter.EntityType))
	}
	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf(`
			EXISTS (SELECT 1 FROM abn_location_history l
				WHERE l.abn = e.abn AND l.is_current = true AND l.state = %s)
		`, next(filter.State)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	result := &SearchResult{Results: []EntitySummary{}}
	countQuery := "SELECT COUNT(*) FROM abn_entity e " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&result.Total); err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT e.abn, e.entity_name, e.entity_type, e.first_active_date, l.state, l.postcode
		FROM abn_entity e
		LEFT JOIN abn_location_history l ON e.abn = l.abn AND l.is_current = true
		%s
		ORDER BY e.entity_name
		LIMIT %s OFFSET %s
	`, whereClause, next(limit), next(filter.Offset))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s EntitySummary
		if err := rows.Scan(&s.ABN, &s.EntityName, &s.EntityType, &s.FirstActiveDate, &s.State, &s.Postcode); err != nil {
			return nil, err
		}
		result.Results = append(result.Results, s)
	}
	return result, rows.Err()
}

// Profile assembles the complete record of one ABN. Returns ErrNotFound when
// the entity does not exist.
func (r *ReportRepository) Profile(ctx context.Context, abn string) (*EntityProfile, error) {
	entity, err := NewEntityRepository(r.db).GetByABN(ctx, abn)
	if err != nil {
		return nil, err
	}
	profile := &EntityProfile{Entity: *entity}

	profile.StatusHistory, err = r.historyEntries(ctx, `
		SELECT status, from_date, to_date, is_current
		FROM abn_status_history WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("status history: %w", err)
	}

	profile.NameHistory, err = r.historyEntries(ctx, `
		SELECT entity_name, from_date, to_date, is_current
		FROM abn_name_history WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("name history: %w", err)
	}

	profile.GSTHistory, err = r.historyEntries(ctx, `
		SELECT gst_status, from_date, to_date, is_current
		FROM abn_gst_history WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("gst history: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT state, postcode, from_date, to_date, is_current
		FROM abn_location_history WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("location history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l LocationEntry
		if err := rows.Scan(&l.State, &l.Postcode, &l.FromDate, &l.ToDate, &l.IsCurrent); err != nil {
			return nil, err
		}
		profile.LocationHistory = append(profile.LocationHistory, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profile.BusinessNames, err = r.namedDates(ctx, `
		SELECT business_name, from_date
		FROM abn_business_name WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("business names: %w", err)
	}

	profile.TradingNames, err = r.namedDates(ctx, `
		SELECT trading_name, from_date
		FROM abn_trading_name WHERE abn = $1 ORDER BY from_date DESC
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("trading names: %w", err)
	}

	asicRows, err := r.db.QueryContext(ctx, `
		SELECT asic_number, asic_type
		FROM abn_asic_registration WHERE abn = $1
	`, abn)
	if err != nil {
		return nil, fmt.Errorf("asic registration: %w", err)
	}
	defer asicRows.Close()
	for asicRows.Next() {
		var a ASICEntry
		if err := asicRows.Scan(&a.ASICNumber, &a.ASICType); err != nil {
			return nil, err
		}
		profile.ASICRegistration = append(profile.ASICRegistration, a)
	}
	return profile, asicRows.Err()
}

func (r *ReportRepository) historyEntries(ctx context.Context, query, abn string) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, abn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Label, &e.FromDate, &e.ToDate, &e.IsCurrent); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ReportRepository) namedDates(ctx context.Context, query, abn string) ([]NamedDate, error) {
	rows, err := r.db.QueryContext(ctx, query, abn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []NamedDate
	for rows.Next() {
		var n NamedDate
		if err := rows.Scan(&n.Name, &n.FromDate); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Analytics computes the chart data behind the analytics endpoint.
func (r *ReportRepository) Analytics(ctx context.Context) (*AnalyticsData, error) {
	data := &AnalyticsData{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT EXTRACT(YEAR FROM first_active_date)::int, COUNT(*)
		FROM abn_entity
		WHERE first_active_date IS NOT NULL
		GROUP BY EXTRACT(YEAR FROM first_active_date)
		ORDER BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("registrations by year: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var y YearCount
		if err := rows.Scan(&y.Year, &y.Count); err != nil {
			return nil, err
		}
		data.ByYear = append(data.ByYear, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reuseRows, err := r.db.QueryContext(ctx, `
		SELECT trading_name, COUNT(DISTINCT abn)
		FROM abn_trading_name
		GROUP BY trading_name
		HAVING COUNT(DISTINCT abn) > 1
		ORDER BY COUNT(DISTINCT abn) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("trading name reuse: %w", err)
	}
	defer reuseRows.Close()
	for reuseRows.Next() {
		var n NameReuse
		if err := reuseRows.Scan(&n.TradingName, &n.ABNCount); err != nil {
			return nil, err
		}
		data.TradingNameReuse = append(data.TradingNameReuse, n)
	}
	if err := reuseRows.Err(); err != nil {
		return nil, err
	}

	churnRows, err := r.db.QueryContext(ctx, `
		SELECT e.abn, e.entity_name, COUNT(*)
		FROM abn_entity e
		JOIN abn_location_history l ON e.abn = l.abn
		GROUP BY e.abn, e.entity_name
		HAVING COUNT(*) > 1
		ORDER BY COUNT(*) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("location changes: %w", err)
	}
	defer churnRows.Close()
	for churnRows.Next() {
		var c EntityChurn
		if err := churnRows.Scan(&c.ABN, &c.EntityName, &c.LocationChanges); err != nil {
			return nil, err
		}
		data.LocationChanges = append(data.LocationChanges, c)
	}
	return data, churnRows.Err()
}
