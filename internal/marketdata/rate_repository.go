package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/krxusd/internal/contracts"
)

// RateRepository implements contracts.RateRepository
// ⭐ SSOT: USD/KRW 환율 저장소는 여기서만
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new exchange rate repository
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// GetByDateRange retrieves daily rates within [from, to], ascending
func (r *RateRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]contracts.RatePoint, error) {
	query := `
		SELECT rate_date, close_rate
		FROM market.exchange_rates
		WHERE rate_date BETWEEN $1 AND $2
		ORDER BY rate_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var rates []contracts.RatePoint
	for rows.Next() {
		var rp contracts.RatePoint
		if err := rows.Scan(&rp.Date, &rp.Close); err != nil {
			return nil, err
		}
		rates = append(rates, rp)
	}
	return rates, rows.Err()
}

// GetLatestDate returns the most recent stored rate date.
// A zero time means no data exists yet.
func (r *RateRepository) GetLatestDate(ctx context.Context) (time.Time, error) {
	var date time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT rate_date
		FROM market.exchange_rates
		ORDER BY rate_date DESC
		LIMIT 1
	`).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("latest rate date: %w", err)
	}
	return date, nil
}

// SaveBatch upserts daily rate records
func (r *RateRepository) SaveBatch(ctx context.Context, points []contracts.RatePoint) error {
	if len(points) == 0 {
		return nil
	}

	query := `
		INSERT INTO market.exchange_rates (rate_date, close_rate)
		VALUES ($1, $2)
		ON CONFLICT (rate_date) DO UPDATE SET
			close_rate = EXCLUDED.close_rate
	`

	batch := &pgx.Batch{}
	for _, rp := range points {
		batch.Queue(query, rp.Date, rp.Close)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save rates: %w", err)
		}
	}
	return nil
}
