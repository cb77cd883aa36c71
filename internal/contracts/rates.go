package contracts

import "time"

// RatePoint represents one day of USD/KRW exchange rate data.
// Close is KRW per 1 USD.
type RatePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// ExchangeRate represents the current USD/KRW exchange rate.
type ExchangeRate struct {
	Rate          float64   `json:"rate"`
	Date          time.Time `json:"date"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
}
