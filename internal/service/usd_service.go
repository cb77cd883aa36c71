package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/krxusd/internal/analysis"
	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/convert"
	"github.com/wonny/krxusd/pkg/config"
	"github.com/wonny/krxusd/pkg/logger"
	"github.com/wonny/krxusd/pkg/redis"
)

// QuoteSource provides live quote and rate snapshots.
type QuoteSource interface {
	FetchQuote(ctx context.Context, code string) (*contracts.Quote, error)
	FetchCurrentRate(ctx context.Context) (*contracts.ExchangeRate, error)
}

// UsdHistory is a stock's USD-converted daily series.
type UsdHistory struct {
	Code           string                        `json:"code"`
	Name           string                        `json:"name"`
	Points         []contracts.UsdConvertedPoint `json:"points"`
	Status         string                        `json:"status"`
	DroppedNoRate  int                           `json:"dropped_no_rate,omitempty"`
	DroppedInvalid int                           `json:"dropped_invalid,omitempty"`
}

// CurrentUsd is a live quote converted at the current exchange rate.
type CurrentUsd struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	KRWPrice      float64   `json:"krw_price"`
	ExchangeRate  float64   `json:"exchange_rate"`
	USDPrice      float64   `json:"usd_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// AnalysisReport pairs the merged USD series with its analytics. Analysis is
// nil, with Reason set, when the series cannot support analytics; that is a
// data condition, not a failure.
type AnalysisReport struct {
	Code     string                        `json:"code"`
	Name     string                        `json:"name"`
	Points   []contracts.UsdConvertedPoint `json:"points"`
	Status   string                        `json:"status"`
	Analysis *contracts.AnalysisResult     `json:"analysis"`
	Reason   string                        `json:"reason,omitempty"`
}

// CompareEntry is one stock's slice of a multi-stock comparison.
// Error is set when that stock's analysis failed; siblings are unaffected.
type CompareEntry struct {
	Code     string                    `json:"code"`
	Status   string                    `json:"status"`
	Error    string                    `json:"error,omitempty"`
	Analysis *contracts.AnalysisResult `json:"analysis,omitempty"`
}

// HistoryOptions bounds a history or analysis request.
type HistoryOptions struct {
	Start        time.Time
	End          time.Time
	CarryForward bool
}

// UsdService is the application service behind the USD conversion and
// analytics endpoints
// ⭐ SSOT: 환산/분석 유즈케이스 오케스트레이션은 여기서만
type UsdService struct {
	stocks contracts.StockRepository
	prices contracts.PriceRepository
	rates  contracts.RateRepository
	quotes QuoteSource
	engine *analysis.Engine
	cache  *redis.Cache
	cfg    *config.Config
	logger *logger.Logger
}

// NewUsdService creates the service over repositories and the quote source
func NewUsdService(
	stocks contracts.StockRepository,
	prices contracts.PriceRepository,
	rates contracts.RateRepository,
	quotes QuoteSource,
	cache *redis.Cache,
	cfg *config.Config,
	log *logger.Logger,
) *UsdService {
	return &UsdService{
		stocks: stocks,
		prices: prices,
		rates:  rates,
		quotes: quotes,
		engine: analysis.NewEngine(analysis.Config{
			WindowDays:  cfg.Analysis.WindowDays,
			TradingDays: cfg.Analysis.TradingDays,
		}),
		cache:  cache,
		cfg:    cfg,
		logger: log,
	}
}

// resolveRange fills zero bounds with the configured default history span.
func (s *UsdService) resolveRange(opts HistoryOptions) (time.Time, time.Time) {
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	start := opts.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -s.cfg.Analysis.HistoryDays)
	}
	return start, end
}

// convertRange loads both series and converts them for [start, end].
func (s *UsdService) convertRange(ctx context.Context, code string, opts HistoryOptions) (convert.Result, error) {
	start, end := s.resolveRange(opts)

	prices, err := s.prices.GetByCodeAndDateRange(ctx, code, start, end)
	if err != nil {
		return convert.Result{}, fmt.Errorf("load prices for %s: %w", code, err)
	}
	rates, err := s.rates.GetByDateRange(ctx, start, end)
	if err != nil {
		return convert.Result{}, fmt.Errorf("load rates: %w", err)
	}

	carryForward := opts.CarryForward || s.cfg.Analysis.CarryForward
	return convert.Convert(prices, rates, convert.Options{
		CarryForward:    carryForward,
		MaxLookbackDays: s.cfg.Analysis.MaxLookbackDays,
	}), nil
}

// History returns the USD-converted daily series for a stock.
func (s *UsdService) History(ctx context.Context, code string, opts HistoryOptions) (*UsdHistory, error) {
	stock, err := s.stocks.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result, err := s.convertRange(ctx, code, opts)
	if err != nil {
		return nil, err
	}

	return &UsdHistory{
		Code:           stock.Code,
		Name:           stock.Name,
		Points:         result.Points,
		Status:         string(result.Status),
		DroppedNoRate:  result.DroppedNoRate,
		DroppedInvalid: result.DroppedInvalid,
	}, nil
}

// AnalysisReport returns the merged series together with its analytics.
// Thin or empty series yield a report with nil Analysis and a Reason; only
// lookup and repository failures return an error.
func (s *UsdService) AnalysisReport(ctx context.Context, code string, opts HistoryOptions) (*AnalysisReport, error) {
	stock, err := s.stocks.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result, err := s.convertRange(ctx, code, opts)
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		Code:   stock.Code,
		Name:   stock.Name,
		Points: result.Points,
		Status: string(result.Status),
	}

	switch result.Status {
	case convert.StatusNoPriceData:
		report.Reason = "no price data in range"
		return report, nil
	case convert.StatusNoRateData:
		report.Reason = "no rate data in range"
		return report, nil
	}

	analyzed, err := s.engine.Analyze(result.Points)
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientData) {
			report.Reason = err.Error()
			return report, nil
		}
		return nil, fmt.Errorf("analyze %s: %w", code, err)
	}

	report.Analysis = analyzed
	return report, nil
}

// Analysis runs the full analytics suite over a stock's converted series.
// Unlike AnalysisReport, a series too thin to analyze is an error here.
func (s *UsdService) Analysis(ctx context.Context, code string, opts HistoryOptions) (*contracts.AnalysisResult, error) {
	report, err := s.AnalysisReport(ctx, code, opts)
	if err != nil {
		return nil, err
	}
	if report.Analysis == nil {
		return nil, fmt.Errorf("analysis for %s unavailable: %s", code, report.Reason)
	}
	return report.Analysis, nil
}

// Current converts a live quote at the current exchange rate.
func (s *UsdService) Current(ctx context.Context, code string) (*CurrentUsd, error) {
	quote, err := s.fetchQuoteCached(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch quote %s: %w", code, err)
	}

	rate, err := s.CurrentRate(ctx)
	if err != nil {
		return nil, err
	}
	if rate.Rate <= 0 {
		return nil, fmt.Errorf("invalid exchange rate: %v", rate.Rate)
	}

	return &CurrentUsd{
		Code:          quote.Code,
		Name:          quote.Name,
		KRWPrice:      quote.Price,
		ExchangeRate:  rate.Rate,
		USDPrice:      quote.Price / rate.Rate,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		Timestamp:     quote.Timestamp,
	}, nil
}

// CurrentRate returns the latest USD/KRW exchange rate, cached briefly.
func (s *UsdService) CurrentRate(ctx context.Context) (*contracts.ExchangeRate, error) {
	var rate contracts.ExchangeRate
	err := s.cache.GetOrSet(ctx, redis.RateKey(), &rate, redis.TTLRealtime, func() (interface{}, error) {
		fresh, err := s.quotes.FetchCurrentRate(ctx)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch current rate: %w", err)
	}
	return &rate, nil
}

// RateHistory returns the stored daily rate series for [start, end].
func (s *UsdService) RateHistory(ctx context.Context, opts HistoryOptions) ([]contracts.RatePoint, error) {
	start, end := s.resolveRange(opts)
	return s.rates.GetByDateRange(ctx, start, end)
}

func (s *UsdService) fetchQuoteCached(ctx context.Context, code string) (*contracts.Quote, error) {
	var quote contracts.Quote
	err := s.cache.GetOrSet(ctx, redis.QuoteKey(code), &quote, redis.TTLRealtime, func() (interface{}, error) {
		fresh, err := s.quotes.FetchQuote(ctx, code)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Compare runs the analytics suite for several stocks concurrently.
// One stock's failure never aborts its siblings; each entry carries its
// own status.
func (s *UsdService) Compare(ctx context.Context, codes []string, opts HistoryOptions) map[string]CompareEntry {
	entries := make(map[string]CompareEntry, len(codes))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()

			entry := CompareEntry{Code: code, Status: "ok"}
			result, err := s.Analysis(ctx, code, opts)
			if err != nil {
				entry.Status = "error"
				entry.Error = err.Error()
				s.logger.WithError(err).WithField("stock_code", code).Warn("Compare analysis failed")
			} else {
				entry.Analysis = result
			}

			mu.Lock()
			entries[code] = entry
			mu.Unlock()
		}(code)
	}

	wg.Wait()
	return entries
}
