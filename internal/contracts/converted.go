package contracts

import (
	"math"
	"time"
)

// UsdConvertedPoint is the merged dual-currency record: a KRW close joined
// with the same-day USD/KRW rate close and the derived USD close.
// ⭐ SSOT: USD 환산 주가는 KRW 종가 / 당일 환율 종가로만 파생
type UsdConvertedPoint struct {
	Date         time.Time `json:"date"`
	KRWClose     float64   `json:"krw_close"`
	ExchangeRate float64   `json:"exchange_rate"`
	USDClose     float64   `json:"usd_close"`
}

// NewUsdConvertedPoint derives the USD close from its two source fields.
// USDClose is never stored independently of them.
func NewUsdConvertedPoint(date time.Time, krwClose, exchangeRate float64) UsdConvertedPoint {
	return UsdConvertedPoint{
		Date:         date,
		KRWClose:     krwClose,
		ExchangeRate: exchangeRate,
		USDClose:     krwClose / exchangeRate,
	}
}

// identityTolerance is the relative tolerance for the usd_close identity.
const identityTolerance = 1e-9

// IsConsistent reports whether usd_close still equals krw_close / exchange_rate
// within floating tolerance. A point that fails this check is stale or corrupt.
func (p UsdConvertedPoint) IsConsistent() bool {
	if p.KRWClose <= 0 || p.ExchangeRate <= 0 {
		return false
	}

	expected := p.KRWClose / p.ExchangeRate
	return math.Abs(p.USDClose-expected) <= identityTolerance*math.Abs(expected)
}
