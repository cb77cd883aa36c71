package contracts

import (
	"context"
	"time"
)

// StockRepository provides stock master data access
// ⭐ SSOT: 저장소 인터페이스는 여기서만 정의
type StockRepository interface {
	GetByCode(ctx context.Context, code string) (*Stock, error)
	Search(ctx context.Context, query string, limit int) ([]Stock, error)
	Save(ctx context.Context, stock *Stock) error
	ListCodes(ctx context.Context) ([]string, error)
}

// PriceRepository provides daily KRW price data access
type PriceRepository interface {
	GetByCodeAndDateRange(ctx context.Context, code string, from, to time.Time) ([]PricePoint, error)
	GetLatestDate(ctx context.Context, code string) (time.Time, error)
	SaveBatch(ctx context.Context, code string, points []PricePoint) error
}

// RateRepository provides daily USD/KRW exchange rate data access
type RateRepository interface {
	GetByDateRange(ctx context.Context, from, to time.Time) ([]RatePoint, error)
	GetLatestDate(ctx context.Context) (time.Time, error)
	SaveBatch(ctx context.Context, points []RatePoint) error
}
