package marketdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/krxusd/internal/contracts"
)

// ErrNotFound is returned when a stock code has no master record.
var ErrNotFound = errors.New("stock not found")

// StockRepository implements contracts.StockRepository
// ⭐ SSOT: 종목 마스터 저장소는 여기서만
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock repository
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// GetByCode retrieves a stock by its code
func (r *StockRepository) GetByCode(ctx context.Context, code string) (*contracts.Stock, error) {
	query := `
		SELECT code, name, market
		FROM market.stocks
		WHERE code = $1
	`

	var s contracts.Stock
	err := r.pool.QueryRow(ctx, query, code).Scan(&s.Code, &s.Name, &s.Market)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query stock %s: %w", code, err)
	}
	return &s, nil
}

// Search finds stocks by code prefix or name substring
func (r *StockRepository) Search(ctx context.Context, queryStr string, limit int) ([]contracts.Stock, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT code, name, market
		FROM market.stocks
		WHERE code LIKE $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY code
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, queryStr, limit)
	if err != nil {
		return nil, fmt.Errorf("search stocks: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var s contracts.Stock
		if err := rows.Scan(&s.Code, &s.Name, &s.Market); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Save inserts or updates a stock master record
func (r *StockRepository) Save(ctx context.Context, stock *contracts.Stock) error {
	query := `
		INSERT INTO market.stocks (code, name, market)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			market = EXCLUDED.market
	`

	_, err := r.pool.Exec(ctx, query, stock.Code, stock.Name, stock.Market)
	return err
}

// ListCodes returns all tracked stock codes
func (r *StockRepository) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT code FROM market.stocks ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
