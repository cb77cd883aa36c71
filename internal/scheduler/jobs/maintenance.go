package jobs

import (
	"context"

	"github.com/wonny/krxusd/internal/realtime"
	"github.com/wonny/krxusd/pkg/logger"
)

// CacheMaintenanceJob evicts stale entries from the realtime quote cache
type CacheMaintenanceJob struct {
	cache  *realtime.QuoteCache
	logger *logger.Logger
}

// NewCacheMaintenanceJob creates a new cache maintenance job
func NewCacheMaintenanceJob(cache *realtime.QuoteCache, log *logger.Logger) *CacheMaintenanceJob {
	return &CacheMaintenanceJob{cache: cache, logger: log}
}

// Name returns the job name
func (j *CacheMaintenanceJob) Name() string {
	return "cache_maintenance"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *CacheMaintenanceJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run removes stale quotes
func (j *CacheMaintenanceJob) Run(_ context.Context) error {
	removed := j.cache.CleanStale()
	j.logger.WithField("removed", removed).Debug("Quote cache maintenance done")
	return nil
}
