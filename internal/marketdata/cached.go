package marketdata

import (
	"context"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/pkg/redis"
)

// CachedPriceRepository wraps a PriceRepository with a read-through cache.
// 쓰기 경로는 캐시를 거치지 않음 (TTL 만료에 맡김)
type CachedPriceRepository struct {
	inner contracts.PriceRepository
	cache *redis.Cache
}

// NewCachedPriceRepository wraps repo with the given cache
func NewCachedPriceRepository(inner contracts.PriceRepository, cache *redis.Cache) *CachedPriceRepository {
	return &CachedPriceRepository{inner: inner, cache: cache}
}

func (r *CachedPriceRepository) GetByCodeAndDateRange(ctx context.Context, code string, from, to time.Time) ([]contracts.PricePoint, error) {
	key := redis.PriceHistoryKey(code, contracts.DateKey(from), contracts.DateKey(to))

	var points []contracts.PricePoint
	err := r.cache.GetOrSet(ctx, key, &points, redis.TTLDaily, func() (interface{}, error) {
		fresh, err := r.inner.GetByCodeAndDateRange(ctx, code, from, to)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *CachedPriceRepository) GetLatestDate(ctx context.Context, code string) (time.Time, error) {
	return r.inner.GetLatestDate(ctx, code)
}

func (r *CachedPriceRepository) SaveBatch(ctx context.Context, code string, points []contracts.PricePoint) error {
	return r.inner.SaveBatch(ctx, code, points)
}

// CachedRateRepository wraps a RateRepository with a read-through cache.
type CachedRateRepository struct {
	inner contracts.RateRepository
	cache *redis.Cache
}

// NewCachedRateRepository wraps repo with the given cache
func NewCachedRateRepository(inner contracts.RateRepository, cache *redis.Cache) *CachedRateRepository {
	return &CachedRateRepository{inner: inner, cache: cache}
}

func (r *CachedRateRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]contracts.RatePoint, error) {
	key := redis.RateHistoryKey(contracts.DateKey(from), contracts.DateKey(to))

	var rates []contracts.RatePoint
	err := r.cache.GetOrSet(ctx, key, &rates, redis.TTLDaily, func() (interface{}, error) {
		fresh, err := r.inner.GetByDateRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *CachedRateRepository) GetLatestDate(ctx context.Context) (time.Time, error) {
	return r.inner.GetLatestDate(ctx)
}

func (r *CachedRateRepository) SaveBatch(ctx context.Context, points []contracts.RatePoint) error {
	return r.inner.SaveBatch(ctx, points)
}
