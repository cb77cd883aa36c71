package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/marketdata"
	"github.com/wonny/krxusd/pkg/logger"
)

// DailySyncJob syncs tracked stock prices and exchange rates after market
// close
// ⭐ SSOT: 일별 동기화 스케줄은 이 Job에서만
type DailySyncJob struct {
	syncer *marketdata.Syncer
	stocks contracts.StockRepository
	logger *logger.Logger
}

// NewDailySyncJob creates a new daily sync job
func NewDailySyncJob(syncer *marketdata.Syncer, stocks contracts.StockRepository, log *logger.Logger) *DailySyncJob {
	return &DailySyncJob{
		syncer: syncer,
		stocks: stocks,
		logger: log,
	}
}

// Name returns the job name
func (j *DailySyncJob) Name() string {
	return "daily_sync"
}

// Schedule returns the cron schedule (4:10 PM KST, after market close)
func (j *DailySyncJob) Schedule() string {
	return "0 10 16 * * *"
}

// Run syncs the rate series and every tracked stock
func (j *DailySyncJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled daily sync")

	codes, err := j.stocks.ListCodes(ctx)
	if err != nil {
		return fmt.Errorf("list tracked codes: %w", err)
	}
	if len(codes) == 0 {
		j.logger.Warn("No tracked stocks, syncing rates only")
	}

	return j.syncer.SyncAll(ctx, codes)
}
