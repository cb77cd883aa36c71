package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/pkg/logger"
)

// QuoteSource provides live quote and rate snapshots.
type QuoteSource interface {
	FetchQuote(ctx context.Context, code string) (*contracts.Quote, error)
	FetchCurrentRate(ctx context.Context) (*contracts.ExchangeRate, error)
}

// Poller periodically refreshes tracked codes into the quote cache.
// Codes are reference-counted so a code stays tracked while any
// subscriber still wants it.
type Poller struct {
	source   QuoteSource
	cache    *QuoteCache
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	tracked map[string]int
}

// NewPoller creates a poller over the given source and cache
func NewPoller(source QuoteSource, cache *QuoteCache, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		source:   source,
		cache:    cache,
		interval: interval,
		logger:   log,
		tracked:  make(map[string]int),
	}
}

// Track adds codes to the polling set
func (p *Poller) Track(codes ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, code := range codes {
		p.tracked[code]++
	}
}

// Untrack releases codes; a code is dropped when no subscriber remains
func (p *Poller) Untrack(codes ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, code := range codes {
		if p.tracked[code] <= 1 {
			delete(p.tracked, code)
		} else {
			p.tracked[code]--
		}
	}
}

func (p *Poller) trackedCodes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	codes := make([]string, 0, len(p.tracked))
	for code := range p.tracked {
		codes = append(codes, code)
	}
	return codes
}

// Run polls until the context is canceled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.WithField("interval", p.interval).Info("Quote poller started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Quote poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	codes := p.trackedCodes()
	if len(codes) == 0 {
		return
	}

	rate, err := p.source.FetchCurrentRate(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Rate fetch failed, skipping poll cycle")
		return
	}
	if rate.Rate <= 0 {
		p.logger.WithField("rate", rate.Rate).Warn("Invalid exchange rate, skipping poll cycle")
		return
	}

	for _, code := range codes {
		quote, err := p.source.FetchQuote(ctx, code)
		if err != nil {
			p.logger.WithError(err).WithField("stock_code", code).Warn("Quote fetch failed")
			continue
		}

		p.cache.Update(&QuoteTick{
			Code:          quote.Code,
			Name:          quote.Name,
			KRWPrice:      quote.Price,
			USDPrice:      quote.Price / rate.Rate,
			ExchangeRate:  rate.Rate,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
			Volume:        quote.Volume,
			Timestamp:     quote.Timestamp,
		})
	}
}
