package realtime

import "time"

// QuoteTick is a live quote converted to USD at the latest exchange rate
// ⭐ SSOT: 실시간 환산 시세 데이터 구조
type QuoteTick struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	KRWPrice      float64   `json:"krw_price"`
	USDPrice      float64   `json:"usd_price"`
	ExchangeRate  float64   `json:"exchange_rate"`
	Change        float64   `json:"change"`         // 전일대비 (KRW)
	ChangePercent float64   `json:"change_percent"` // 등락율
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
	IsStale       bool      `json:"is_stale"`
}
