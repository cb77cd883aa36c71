// Package convert merges a KRW price series with a USD/KRW exchange-rate
// series by date and derives the USD-converted series.
// ⭐ SSOT: USD 환산 계산은 이 패키지에서만
package convert

import (
	"time"

	"github.com/wonny/krxusd/internal/contracts"
)

// Status distinguishes why a conversion produced no points, so callers can
// render "no price data" and "no rate data" differently.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoPriceData Status = "no_price_data"
	StatusNoRateData  Status = "no_rate_data"
)

// DefaultMaxLookbackDays bounds the carry-forward search for a prior rate.
// 원화 환율 휴장일 불일치는 보통 수일 이내이므로 4일이면 충분
const DefaultMaxLookbackDays = 4

// Options controls conversion behavior.
type Options struct {
	// Start and End bound the output by date (inclusive). Zero values mean
	// unbounded.
	Start time.Time
	End   time.Time

	// CarryForward opts in to using the most recent prior rate when a price
	// date has no same-day rate. The default (off) drops such dates: a
	// stale rate silently corrupts day-accurate conversion, so continuity
	// must be requested explicitly.
	CarryForward bool

	// MaxLookbackDays bounds how many calendar days back a carried-forward
	// rate may come from. Zero means DefaultMaxLookbackDays.
	MaxLookbackDays int
}

// Result is the outcome of one conversion.
type Result struct {
	Points []contracts.UsdConvertedPoint

	// Status is the series-level signal for empty inputs.
	Status Status

	// DroppedNoRate counts price dates dropped for lack of a matching rate.
	DroppedNoRate int

	// DroppedInvalid counts points skipped because the price or rate was
	// zero or negative. Point-level: one bad value never voids the series.
	DroppedInvalid int
}

// Convert joins prices with rates on exact date match (inner join) and
// derives usd_close = krw_close / exchange_rate for every aligned point.
// Inputs must be ascending by date with unique dates; the output preserves
// that order. Neither input slice is mutated or retained.
func Convert(prices []contracts.PricePoint, rates []contracts.RatePoint, opts Options) Result {
	if len(prices) == 0 {
		return Result{Status: StatusNoPriceData}
	}
	if len(rates) == 0 {
		return Result{Status: StatusNoRateData}
	}

	lookback := opts.MaxLookbackDays
	if lookback <= 0 {
		lookback = DefaultMaxLookbackDays
	}

	// Date-indexed rate map, 원본 Python 구현과 동일한 조인 방식
	rateByDate := make(map[string]float64, len(rates))
	for _, r := range rates {
		rateByDate[contracts.DateKey(r.Date)] = r.Close
	}

	result := Result{
		Status: StatusOK,
		Points: make([]contracts.UsdConvertedPoint, 0, len(prices)),
	}

	for _, p := range prices {
		if !opts.Start.IsZero() && p.Date.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && p.Date.After(opts.End) {
			continue
		}

		if p.Close <= 0 {
			result.DroppedInvalid++
			continue
		}

		rate, ok := rateByDate[contracts.DateKey(p.Date)]
		if !ok && opts.CarryForward {
			rate, ok = lookbackRate(rateByDate, p.Date, lookback)
		}
		if !ok {
			result.DroppedNoRate++
			continue
		}

		if rate <= 0 {
			// InvalidRate: excluded from output, never emitted zeroed
			result.DroppedInvalid++
			continue
		}

		result.Points = append(result.Points, contracts.NewUsdConvertedPoint(p.Date, p.Close, rate))
	}

	return result
}

// lookbackRate finds the most recent prior rate within maxDays calendar days.
func lookbackRate(rateByDate map[string]float64, date time.Time, maxDays int) (float64, bool) {
	for i := 1; i <= maxDays; i++ {
		prev := date.AddDate(0, 0, -i)
		if rate, ok := rateByDate[contracts.DateKey(prev)]; ok {
			return rate, true
		}
	}
	return 0, false
}
