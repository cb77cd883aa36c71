package contracts

import "time"

// Stock represents stock master data
// ⭐ SSOT: 종목 마스터 데이터 구조는 여기서만 정의
type Stock struct {
	Code   string `json:"code"`   // 종목 코드 (예: 005930)
	Name   string `json:"name"`   // 종목명
	Market string `json:"market"` // KOSPI / KOSDAQ
}

// PricePoint represents one day of KRW-denominated OHLCV data.
// Dates within a series are unique and ascending.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote represents a current (intraday) stock price snapshot.
type Quote struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`          // 현재가 (KRW)
	Change        float64   `json:"change"`         // 전일대비
	ChangePercent float64   `json:"change_percent"` // 등락율
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// DateKey formats a date the way all series joins key it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
