// Package report serves the read-side queries with a cache in front of the
// database.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abr-tools/abr-ingest/internal/cache"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

// Reporter is the slice of the report repository the service consumes.
type Reporter interface {
	DashboardStats(ctx context.Context) (*storage.DashboardStats, error)
	Search(ctx context.Context, filter storage.SearchFilter) (*storage.SearchResult, error)
	Profile(ctx context.Context, abn string) (*storage.EntityProfile, error)
	Analytics(ctx context.Context) (*storage.AnalyticsData, error)
}

// Service answers reporting queries, caching results for TTL. Search is
// never cached; its filter space is unbounded.
type Service struct {
	reports Reporter
	cache   cache.Client
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewService creates a report service.
func NewService(reports Reporter, cacheClient cache.Client, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		reports: reports,
		cache:   cacheClient,
		ttl:     ttl,
		logger:  logger.With().Str("component", "report").Logger(),
	}
}

// Dashboard returns the summary statistics block.
func (s *Service) Dashboard(ctx context.Context) (*storage.DashboardStats, error) {
	var stats storage.DashboardStats
	hit, err := s.cached(ctx, cache.Key("stats", "dashboard"), &stats)
	if err != nil {
		return nil, err
	}
	if hit {
		return &stats, nil
	}

	fresh, err := s.reports.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, cache.Key("stats", "dashboard"), fresh)
	return fresh, nil
}

// Analytics returns the chart data.
func (s *Service) Analytics(ctx context.Context) (*storage.AnalyticsData, error) {
	var data storage.AnalyticsData
	hit, err := s.cached(ctx, cache.Key("stats", "analytics"), &data)
	if err != nil {
		return nil, err
	}
	if hit {
		return &data, nil
	}

	fresh, err := s.reports.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, cache.Key("stats", "analytics"), fresh)
	return fresh, nil
}

// Profile returns the full record of one ABN.
func (s *Service) Profile(ctx context.Context, abn string) (*storage.EntityProfile, error) {
	key := cache.EntityKey(abn, "profile")

	var profile storage.EntityProfile
	hit, err := s.cached(ctx, key, &profile)
	if err != nil {
		return nil, err
	}
	if hit {
		return &profile, nil
	}

	fresh, err := s.reports.Profile(ctx, abn)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, fresh)
	return fresh, nil
}

// Search runs an entity search straight against the database.
func (s *Service) Search(ctx context.Context, filter storage.SearchFilter) (*storage.SearchResult, error) {
	return s.reports.Search(ctx, filter)
}

// Invalidate drops cached results after an ingest run changes the data.
// Passing ABNs limits the sweep to those entities plus the aggregates.
func (s *Service) Invalidate(ctx context.Context, abns ...string) {
	if err := s.cache.DeleteByPrefix(ctx, "stats:"); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
	for _, abn := range abns {
		if err := s.cache.DeleteByPrefix(ctx, cache.EntityKey(abn)); err != nil {
			s.logger.Warn().Err(err).Str("abn", abn).Msg("failed to invalidate entity cache")
		}
	}
}

// cached loads key into dest, reporting whether it was present. Cache errors
// other than a miss degrade to a miss; the database remains the source of
// truth.
func (s *Service) cached(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) put(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
