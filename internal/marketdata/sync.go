package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/pkg/logger"
)

// DefaultHistoryDays is the backfill span when no local data exists.
const DefaultHistoryDays = 365

// FetchPlan describes what a sync run should fetch for one series.
type FetchPlan struct {
	// Fetch is false when the series is already up to date (no-op).
	Fetch bool
	From  time.Time
	To    time.Time
	// FullBackfill marks a from-scratch load rather than a gap fill.
	FullBackfill bool
}

// PlanFetch decides the fetch window for a series given its latest stored
// date. latest.IsZero() means no local data.
//
//	데이터 없음      → historyDays만큼 전체 백필
//	갭 존재         → latest 다음 날부터 오늘까지
//	최신           → no-op
func PlanFetch(latest, today time.Time, historyDays int) FetchPlan {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	today = truncateDay(today)

	if latest.IsZero() {
		return FetchPlan{
			Fetch:        true,
			From:         today.AddDate(0, 0, -historyDays),
			To:           today,
			FullBackfill: true,
		}
	}

	latest = truncateDay(latest)
	if !latest.Before(today) {
		return FetchPlan{}
	}

	return FetchPlan{
		Fetch: true,
		From:  latest.AddDate(0, 0, 1),
		To:    today,
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PriceFetcher fetches daily OHLCV from the upstream source.
type PriceFetcher interface {
	FetchDailyPrices(ctx context.Context, code string, from, to time.Time) ([]contracts.PricePoint, error)
}

// RateFetcher fetches daily USD/KRW closes from the upstream source.
type RateFetcher interface {
	FetchRateHistory(ctx context.Context, from, to time.Time) ([]contracts.RatePoint, error)
}

// Syncer keeps local price and rate series current against the upstream
// source, fetching only the missing span per series.
// ⭐ SSOT: 갭 필링 동기화는 여기서만
type Syncer struct {
	prices      contracts.PriceRepository
	rates       contracts.RateRepository
	priceSource PriceFetcher
	rateSource  RateFetcher
	historyDays int
	logger      *logger.Logger
}

// NewSyncer creates a syncer over the given repositories and sources
func NewSyncer(
	prices contracts.PriceRepository,
	rates contracts.RateRepository,
	priceSource PriceFetcher,
	rateSource RateFetcher,
	historyDays int,
	log *logger.Logger,
) *Syncer {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Syncer{
		prices:      prices,
		rates:       rates,
		priceSource: priceSource,
		rateSource:  rateSource,
		historyDays: historyDays,
		logger:      log,
	}
}

// SyncPrices fills the gap in the daily price series for one code.
// Returns the number of rows fetched and stored.
func (s *Syncer) SyncPrices(ctx context.Context, code string) (int, error) {
	latest, err := s.prices.GetLatestDate(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("sync prices %s: %w", code, err)
	}

	plan := PlanFetch(latest, time.Now(), s.historyDays)
	if !plan.Fetch {
		s.logger.WithField("stock_code", code).Debug("Prices up to date")
		return 0, nil
	}

	points, err := s.priceSource.FetchDailyPrices(ctx, code, plan.From, plan.To)
	if err != nil {
		return 0, fmt.Errorf("fetch prices %s: %w", code, err)
	}
	if len(points) == 0 {
		return 0, nil
	}

	if err := s.prices.SaveBatch(ctx, code, points); err != nil {
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"stock_code": code,
		"rows":       len(points),
		"from":       contracts.DateKey(plan.From),
		"to":         contracts.DateKey(plan.To),
		"backfill":   plan.FullBackfill,
	}).Info("Synced daily prices")
	return len(points), nil
}

// SyncRates fills the gap in the daily USD/KRW rate series.
func (s *Syncer) SyncRates(ctx context.Context) (int, error) {
	latest, err := s.rates.GetLatestDate(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync rates: %w", err)
	}

	plan := PlanFetch(latest, time.Now(), s.historyDays)
	if !plan.Fetch {
		s.logger.Debug("Rates up to date")
		return 0, nil
	}

	rates, err := s.rateSource.FetchRateHistory(ctx, plan.From, plan.To)
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	if len(rates) == 0 {
		return 0, nil
	}

	if err := s.rates.SaveBatch(ctx, rates); err != nil {
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"rows":     len(rates),
		"from":     contracts.DateKey(plan.From),
		"to":       contracts.DateKey(plan.To),
		"backfill": plan.FullBackfill,
	}).Info("Synced exchange rates")
	return len(rates), nil
}

// SyncAll syncs the rate series and every given stock code.
// Per-code failures are logged and skipped so one bad code does not
// abort the run.
func (s *Syncer) SyncAll(ctx context.Context, codes []string) error {
	if _, err := s.SyncRates(ctx); err != nil {
		return err
	}

	var failed int
	for _, code := range codes {
		if _, err := s.SyncPrices(ctx, code); err != nil {
			s.logger.WithError(err).WithField("stock_code", code).Error("Price sync failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("price sync failed for %d of %d codes", failed, len(codes))
	}
	return nil
}
