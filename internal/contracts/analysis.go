package contracts

import "time"

// NormalizedPoint carries both series rebased to 100 at the first observation.
// 절대 가격 수준과 무관하게 곡선 모양을 비교하기 위한 값
type NormalizedPoint struct {
	Date time.Time `json:"date"`
	USD  float64   `json:"usd"`
	KRW  float64   `json:"krw"`
}

// Attribution decomposes the USD-denominated return into the underlying KRW
// stock move and the FX effect. All values are first-to-last percentages.
//
// FXEffect = TotalReturn - StockReturn is an additive first-order
// approximation of the multiplicative relationship; it is kept as-is for
// compatibility with historical outputs.
type Attribution struct {
	TotalReturn float64 `json:"total_return"` // USD 기준 수익률
	StockReturn float64 `json:"stock_return"` // KRW 기준 수익률
	FXEffect    float64 `json:"fx_effect"`    // 환율 효과
}

// VolatilityPair holds annualized volatility (percent) per currency.
type VolatilityPair struct {
	USD float64 `json:"usd"`
	KRW float64 `json:"krw"`
}

// DrawdownPoint is the running drawdown from the running peak at one date.
// Values are percentages, always <= 0, exactly 0 at new highs.
type DrawdownPoint struct {
	Date time.Time `json:"date"`
	USD  float64   `json:"usd"`
	KRW  float64   `json:"krw"`
}

// Drawdown holds the per-date drawdown series and the maximum (most
// negative) drawdown per currency. The two curves are computed from the
// same merged data and can diverge; that divergence is the signal.
type Drawdown struct {
	Points []DrawdownPoint `json:"points"`
	USDMax float64         `json:"usd_max"`
	KRWMax float64         `json:"krw_max"`
}

// RangePair holds an extreme value per currency.
type RangePair struct {
	USD float64 `json:"usd"`
	KRW float64 `json:"krw"`
}

// AnalysisResult holds every derived analytic over a merged USD/KRW series.
type AnalysisResult struct {
	Normalized  []NormalizedPoint `json:"normalized_returns"`
	Attribution Attribution       `json:"attribution"`
	Volatility  VolatilityPair    `json:"volatility"`
	Drawdown    Drawdown          `json:"drawdown"`
	High52W     RangePair         `json:"high_52w"`
	Low52W      RangePair         `json:"low_52w"`
}
