package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheService fronts the report cache. Cache failures degrade to a miss; the
// engine never fails a read because Redis is down.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true on a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	err := s.repo.Get(ctx, key, dest)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Set(ctx, key, value, s.defaultTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the cached entry for a key.
func (s *CacheService) Invalidate(ctx context.Context, key string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// reportCacheKey names the cached report snapshot for one schedule.
func reportCacheKey(scheduleID int64) string {
	return fmt.Sprintf("report:schedule:%d", scheduleID)
}
