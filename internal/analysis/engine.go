// Package analysis computes comparative analytics over a merged USD/KRW
// series: normalized return curves, return attribution, annualized
// volatility, drawdowns and trailing 52-week extremes.
// ⭐ SSOT: 시계열 분석 지표 계산은 이 패키지에서만
package analysis

import (
	"errors"
	"math"

	"github.com/wonny/krxusd/internal/contracts"
)

// ErrInsufficientData is returned when fewer than 2 aligned points are
// supplied. Attribution, volatility and drawdown are meaningless for a
// single observation, so the whole result is withheld.
var ErrInsufficientData = errors.New("insufficient data: need at least 2 points")

// Config holds market-convention parameters.
type Config struct {
	// WindowDays is the trailing point-count window for 52-week extremes.
	// A fixed count (not a calendar year): trading calendars have holidays,
	// and the point-count semantics are preserved deliberately.
	WindowDays int

	// TradingDays is the annualization factor for volatility.
	TradingDays int
}

// DefaultConfig returns the KRX convention: 252 trading days.
func DefaultConfig() Config {
	return Config{
		WindowDays:  252,
		TradingDays: 252,
	}
}

// Engine computes analytics over merged series. Stateless: a single Engine
// is safe for concurrent use across instruments.
type Engine struct {
	config Config
}

// NewEngine creates an analysis engine. Zero config fields fall back to
// the defaults.
func NewEngine(config Config) *Engine {
	def := DefaultConfig()
	if config.WindowDays <= 0 {
		config.WindowDays = def.WindowDays
	}
	if config.TradingDays <= 0 {
		config.TradingDays = def.TradingDays
	}
	return &Engine{config: config}
}

// Analyze computes every analytic over the merged series. The input must be
// ascending by date; it is never mutated or retained.
func (e *Engine) Analyze(points []contracts.UsdConvertedPoint) (*contracts.AnalysisResult, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	usd := make([]float64, len(points))
	krw := make([]float64, len(points))
	for i, p := range points {
		usd[i] = p.USDClose
		krw[i] = p.KRWClose
	}

	result := &contracts.AnalysisResult{
		Normalized:  e.normalizedReturns(points, usd, krw),
		Attribution: e.attribution(usd, krw),
		Volatility: contracts.VolatilityPair{
			USD: e.annualizedVolatility(usd),
			KRW: e.annualizedVolatility(krw),
		},
		Drawdown: e.drawdown(points, usd, krw),
	}

	result.High52W.USD, result.Low52W.USD = trailingExtremes(usd, e.config.WindowDays)
	result.High52W.KRW, result.Low52W.KRW = trailingExtremes(krw, e.config.WindowDays)

	return result, nil
}

// normalizedReturns rebases both series to 100 at the first observation.
func (e *Engine) normalizedReturns(points []contracts.UsdConvertedPoint, usd, krw []float64) []contracts.NormalizedPoint {
	normUSD := normalize(usd)
	normKRW := normalize(krw)

	out := make([]contracts.NormalizedPoint, len(points))
	for i, p := range points {
		out[i] = contracts.NormalizedPoint{
			Date: p.Date,
			USD:  normUSD[i],
			KRW:  normKRW[i],
		}
	}
	return out
}

// attribution decomposes the first-to-last USD return into the KRW stock
// move and the residual FX effect (additive, kept for compatibility).
func (e *Engine) attribution(usd, krw []float64) contracts.Attribution {
	totalReturn := (usd[len(usd)-1] - usd[0]) / usd[0] * 100
	stockReturn := (krw[len(krw)-1] - krw[0]) / krw[0] * 100

	return contracts.Attribution{
		TotalReturn: totalReturn,
		StockReturn: stockReturn,
		FXEffect:    totalReturn - stockReturn,
	}
}

// annualizedVolatility is stdDev(dailyReturns) * sqrt(tradingDays), as a percent.
func (e *Engine) annualizedVolatility(values []float64) float64 {
	return sampleStdDev(dailyReturns(values)) * math.Sqrt(float64(e.config.TradingDays)) * 100
}

// drawdown computes both running-drawdown curves from the same merged data.
func (e *Engine) drawdown(points []contracts.UsdConvertedPoint, usd, krw []float64) contracts.Drawdown {
	usdSeries, usdMax := drawdownSeries(usd)
	krwSeries, krwMax := drawdownSeries(krw)

	out := contracts.Drawdown{
		Points: make([]contracts.DrawdownPoint, len(points)),
		USDMax: usdMax,
		KRWMax: krwMax,
	}
	for i, p := range points {
		out.Points[i] = contracts.DrawdownPoint{
			Date: p.Date,
			USD:  usdSeries[i],
			KRW:  krwSeries[i],
		}
	}
	return out
}
