package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
)

func mergedSeries(krwCloses, rates []float64) []contracts.UsdConvertedPoint {
	points := make([]contracts.UsdConvertedPoint, len(krwCloses))
	for i := range krwCloses {
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		points[i] = contracts.NewUsdConvertedPoint(date, krwCloses[i], rates[i])
	}
	return points
}

// usdSeries builds a merged series with the given USD closes by holding the
// rate at 1000 KRW/USD.
func usdSeries(usdCloses []float64) []contracts.UsdConvertedPoint {
	krw := make([]float64, len(usdCloses))
	rates := make([]float64, len(usdCloses))
	for i, v := range usdCloses {
		krw[i] = v * 1000
		rates[i] = 1000
	}
	return mergedSeries(krw, rates)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, n := range []int{0, 1} {
		points := usdSeries(make([]float64, 0))
		if n == 1 {
			points = usdSeries([]float64{100})
		}

		result, err := engine.Analyze(points)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("n=%d: err = %v, want ErrInsufficientData", n, err)
		}
		if result != nil {
			t.Errorf("n=%d: result must be absent, got %+v", n, result)
		}
	}
}

func TestAnalyzeNormalization(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	points := mergedSeries(
		[]float64{72000, 73000, 74500},
		[]float64{1450, 1460, 1440},
	)

	result, err := engine.Analyze(points)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if len(result.Normalized) != 3 {
		t.Fatalf("got %d normalized points, want 3", len(result.Normalized))
	}
	if result.Normalized[0].USD != 100 {
		t.Errorf("Normalized[0].USD = %v, want exactly 100", result.Normalized[0].USD)
	}
	if result.Normalized[0].KRW != 100 {
		t.Errorf("Normalized[0].KRW = %v, want exactly 100", result.Normalized[0].KRW)
	}

	// KRW curve: 73000/72000*100
	want := 73000.0 / 72000.0 * 100
	if math.Abs(result.Normalized[1].KRW-want) > 1e-9 {
		t.Errorf("Normalized[1].KRW = %v, want %v", result.Normalized[1].KRW, want)
	}
}

func TestAnalyzeAttribution(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// USD rises 10% first-to-last, KRW rises 15%
	points := []contracts.UsdConvertedPoint{
		contracts.NewUsdConvertedPoint(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 100000, 1000),
		contracts.NewUsdConvertedPoint(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 115000, 1045.4545454545455),
	}

	result, err := engine.Analyze(points)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	attr := result.Attribution
	if math.Abs(attr.TotalReturn-10) > 1e-9 {
		t.Errorf("TotalReturn = %v, want 10", attr.TotalReturn)
	}
	if math.Abs(attr.StockReturn-15) > 1e-9 {
		t.Errorf("StockReturn = %v, want 15", attr.StockReturn)
	}
	// Additivity holds exactly
	if attr.FXEffect != attr.TotalReturn-attr.StockReturn {
		t.Errorf("FXEffect = %v, want TotalReturn-StockReturn = %v",
			attr.FXEffect, attr.TotalReturn-attr.StockReturn)
	}
	if math.Abs(attr.FXEffect-(-5)) > 1e-9 {
		t.Errorf("FXEffect = %v, want -5", attr.FXEffect)
	}
}

func TestAnalyzeDrawdown(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	points := usdSeries([]float64{100, 110, 90, 95})

	result, err := engine.Analyze(points)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	// peaks [100,110,110,110] -> drawdowns [0, 0, -18.18.., -13.63..]
	wantDD := []float64{0, 0, (90.0 - 110.0) / 110.0 * 100, (95.0 - 110.0) / 110.0 * 100}
	for i, want := range wantDD {
		got := result.Drawdown.Points[i].USD
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Drawdown.Points[%d].USD = %v, want %v", i, got, want)
		}
		if got > 0 {
			t.Errorf("Drawdown.Points[%d].USD = %v, must be <= 0", i, got)
		}
	}

	wantMax := (90.0 - 110.0) / 110.0 * 100 // ≈ -18.18
	if math.Abs(result.Drawdown.USDMax-wantMax) > 1e-9 {
		t.Errorf("Drawdown.USDMax = %v, want %v", result.Drawdown.USDMax, wantMax)
	}
}

func TestAnalyzeDrawdownZeroAtNewHighs(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	points := usdSeries([]float64{100, 105, 103, 110, 120})

	result, err := engine.Analyze(points)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	for _, i := range []int{0, 1, 3, 4} { // new running maxima
		if result.Drawdown.Points[i].USD != 0 {
			t.Errorf("Drawdown at new high index %d = %v, want exactly 0", i, result.Drawdown.Points[i].USD)
		}
	}
}

func TestAnalyzeVolatility(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Constant series: zero volatility, no NaN
	result, err := engine.Analyze(usdSeries([]float64{100, 100, 100, 100}))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if result.Volatility.USD != 0 {
		t.Errorf("constant series Volatility.USD = %v, want 0", result.Volatility.USD)
	}
	if result.Volatility.KRW != 0 {
		t.Errorf("constant series Volatility.KRW = %v, want 0", result.Volatility.KRW)
	}

	// Moving series: positive, finite
	result, err = engine.Analyze(usdSeries([]float64{100, 102, 99, 104, 101}))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if result.Volatility.USD <= 0 || math.IsNaN(result.Volatility.USD) {
		t.Errorf("Volatility.USD = %v, want positive finite value", result.Volatility.USD)
	}
}

func TestAnalyzeVolatilityAnnualization(t *testing.T) {
	// Two points: single return, sample stddev over one value is 0
	engine := NewEngine(DefaultConfig())
	result, err := engine.Analyze(usdSeries([]float64{100, 110}))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if result.Volatility.USD != 0 {
		t.Errorf("single-return Volatility.USD = %v, want 0 (sample stddev)", result.Volatility.USD)
	}

	// Three points with known returns: check sqrt(252) scaling
	values := []float64{100, 110, 99}

	result, err = engine.Analyze(usdSeries(values))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	want := sampleStdDev(dailyReturns(values)) * math.Sqrt(252) * 100
	if math.Abs(result.Volatility.USD-want) > 1e-9 {
		t.Errorf("Volatility.USD = %v, want %v", result.Volatility.USD, want)
	}
}

func TestAnalyzeTrailingWindow(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 300 points: the first 48 carry the global max/min, which must be
	// excluded by the 252-point trailing window.
	values := make([]float64, 300)
	for i := range values {
		values[i] = 100
	}
	values[10] = 500 // global high, outside window
	values[20] = 1   // global low, outside window
	values[280] = 200
	values[290] = 50

	result, err := engine.Analyze(usdSeries(values))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if result.High52W.USD != 200 {
		t.Errorf("High52W.USD = %v, want 200 (window excludes index 10)", result.High52W.USD)
	}
	if result.Low52W.USD != 50 {
		t.Errorf("Low52W.USD = %v, want 50 (window excludes index 20)", result.Low52W.USD)
	}
}

func TestAnalyzeCustomWindow(t *testing.T) {
	engine := NewEngine(Config{WindowDays: 2, TradingDays: 252})
	values := []float64{500, 1, 100, 120}

	result, err := engine.Analyze(usdSeries(values))
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if result.High52W.USD != 120 {
		t.Errorf("High52W.USD = %v, want 120", result.High52W.USD)
	}
	if result.Low52W.USD != 100 {
		t.Errorf("Low52W.USD = %v, want 100", result.Low52W.USD)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(Config{})
	if engine.config.WindowDays != 252 {
		t.Errorf("WindowDays = %d, want 252", engine.config.WindowDays)
	}
	if engine.config.TradingDays != 252 {
		t.Errorf("TradingDays = %d, want 252", engine.config.TradingDays)
	}
}
