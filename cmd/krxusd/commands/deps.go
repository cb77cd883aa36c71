package commands

import (
	"fmt"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/external/naver"
	"github.com/wonny/krxusd/internal/marketdata"
	"github.com/wonny/krxusd/internal/service"
	"github.com/wonny/krxusd/pkg/config"
	"github.com/wonny/krxusd/pkg/database"
	"github.com/wonny/krxusd/pkg/httputil"
	"github.com/wonny/krxusd/pkg/logger"
	"github.com/wonny/krxusd/pkg/redis"
)

// deps bundles the shared wiring every command needs
// ⭐ SSOT: 의존성 조립은 여기서만
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	cache  *redis.Cache
	naver  *naver.Client
	stocks contracts.StockRepository
	prices contracts.PriceRepository
	rates  contracts.RateRepository
	syncer *marketdata.Syncer
	usd    *service.UsdService

	closers []func()
}

func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "krxusd")

	httpClient := httputil.New(cfg, log)
	naverClient := naver.NewClient(cfg, httpClient, log)

	stocks := marketdata.NewStockRepository(db.Pool)
	prices := marketdata.NewCachedPriceRepository(marketdata.NewPriceRepository(db.Pool), cache)
	rates := marketdata.NewCachedRateRepository(marketdata.NewRateRepository(db.Pool), cache)

	syncer := marketdata.NewSyncer(prices, rates, naverClient, naverClient, cfg.Analysis.HistoryDays, log)
	usd := service.NewUsdService(stocks, prices, rates, naverClient, cache, cfg, log)

	return &deps{
		cfg:    cfg,
		log:    log,
		db:     db,
		cache:  cache,
		naver:  naverClient,
		stocks: stocks,
		prices: prices,
		rates:  rates,
		syncer: syncer,
		usd:    usd,
		closers: []func(){
			func() { redisClient.Close() },
			db.Close,
		},
	}, nil
}

func (d *deps) close() {
	for _, fn := range d.closers {
		fn()
	}
}
