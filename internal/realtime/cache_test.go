package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/wonny/krxusd/pkg/config"
	"github.com/wonny/krxusd/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "console"})
}

func tick(code string, ts time.Time) *QuoteTick {
	return &QuoteTick{
		Code:         code,
		KRWPrice:     72500,
		USDPrice:     50,
		ExchangeRate: 1450,
		Timestamp:    ts,
	}
}

func TestQuoteCacheUpdateAndGet(t *testing.T) {
	c := NewQuoteCache(time.Minute, testLogger())

	if !c.Update(tick("005930", time.Now())) {
		t.Fatal("Update() rejected fresh tick")
	}

	got, ok := c.Get("005930")
	if !ok {
		t.Fatal("Get() miss after Update()")
	}
	if got.USDPrice != 50 {
		t.Errorf("USDPrice = %v, want 50", got.USDPrice)
	}
	if got.IsStale {
		t.Error("fresh tick marked stale")
	}
}

func TestQuoteCacheRejectsOlder(t *testing.T) {
	c := NewQuoteCache(time.Minute, testLogger())
	now := time.Now()

	c.Update(tick("005930", now))
	if c.Update(tick("005930", now.Add(-time.Second))) {
		t.Error("Update() accepted older tick")
	}
}

func TestQuoteCacheStaleness(t *testing.T) {
	c := NewQuoteCache(time.Millisecond, testLogger())

	c.Update(tick("005930", time.Now().Add(-time.Second)))

	got, ok := c.Get("005930")
	if !ok {
		t.Fatal("Get() miss")
	}
	if !got.IsStale {
		t.Error("tick past TTL not marked stale")
	}
}

func TestQuoteCacheGetMany(t *testing.T) {
	c := NewQuoteCache(time.Minute, testLogger())
	now := time.Now()

	c.Update(tick("005930", now))
	c.Update(tick("000660", now))

	got := c.GetMany([]string{"005930", "000660", "999999"})
	if len(got) != 2 {
		t.Errorf("GetMany() returned %d ticks, want 2", len(got))
	}
	if _, ok := got["999999"]; ok {
		t.Error("GetMany() returned untracked code")
	}
}

func TestQuoteCacheGetReturnsCopy(t *testing.T) {
	c := NewQuoteCache(time.Minute, testLogger())
	c.Update(tick("005930", time.Now()))

	got, _ := c.Get("005930")
	got.USDPrice = 999
	got.IsStale = true

	again, _ := c.Get("005930")
	if again.USDPrice != 50 {
		t.Errorf("cached USDPrice = %v after caller mutation, want 50", again.USDPrice)
	}
	if again.IsStale {
		t.Error("caller mutation leaked staleness into cache")
	}
}

func TestQuoteCacheConcurrentReads(t *testing.T) {
	c := NewQuoteCache(time.Millisecond, testLogger())
	c.Update(tick("005930", time.Now().Add(-time.Second)))
	c.Update(tick("000660", time.Now().Add(-time.Second)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got, ok := c.Get("005930"); ok && !got.IsStale {
					t.Error("tick past TTL not marked stale")
					return
				}
				for _, got := range c.GetMany([]string{"005930", "000660"}) {
					if !got.IsStale {
						t.Error("tick past TTL not marked stale")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestQuoteCacheCleanStale(t *testing.T) {
	c := NewQuoteCache(time.Millisecond, testLogger())

	c.Update(tick("005930", time.Now().Add(-time.Second)))
	c.Update(tick("000660", time.Now().Add(time.Minute)))

	if n := c.CleanStale(); n != 1 {
		t.Errorf("CleanStale() = %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestPollerTracking(t *testing.T) {
	p := NewPoller(nil, NewQuoteCache(time.Minute, testLogger()), time.Second, testLogger())

	p.Track("005930", "000660")
	p.Track("005930")

	if got := len(p.trackedCodes()); got != 2 {
		t.Fatalf("tracked %d codes, want 2", got)
	}

	// One subscriber left; code must stay tracked
	p.Untrack("005930")
	if got := len(p.trackedCodes()); got != 2 {
		t.Errorf("tracked %d codes after partial untrack, want 2", got)
	}

	p.Untrack("005930", "000660")
	if got := len(p.trackedCodes()); got != 0 {
		t.Errorf("tracked %d codes after full untrack, want 0", got)
	}
}
