package convert

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func pricePoint(d int, close float64) contracts.PricePoint {
	return contracts.PricePoint{Date: day(d), Close: close}
}

func ratePoint(d int, close float64) contracts.RatePoint {
	return contracts.RatePoint{Date: day(d), Close: close}
}

func TestConvert(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 72000),
		pricePoint(2, 73000),
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
		ratePoint(2, 1460),
	}

	result := Convert(prices, rates, Options{})

	if result.Status != StatusOK {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOK)
	}
	if len(result.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(result.Points))
	}

	// 72000 / 1450 = 49.655...
	if math.Abs(result.Points[0].USDClose-49.6551724137931) > 1e-9 {
		t.Errorf("Points[0].USDClose = %v, want 49.655...", result.Points[0].USDClose)
	}
	if result.Points[1].USDClose != 50.0 {
		t.Errorf("Points[1].USDClose = %v, want 50.0", result.Points[1].USDClose)
	}

	// Conversion identity holds for every emitted point
	for _, p := range result.Points {
		if !p.IsConsistent() {
			t.Errorf("point %s violates the usd_close identity", contracts.DateKey(p.Date))
		}
	}
}

func TestConvertDropsMissingRate(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 72000),
		pricePoint(2, 73000),
		pricePoint(3, 74000), // no rate for this date
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
		ratePoint(2, 1460),
	}

	result := Convert(prices, rates, Options{})

	if len(result.Points) != 2 {
		t.Fatalf("got %d points, want 2 (01-03 dropped)", len(result.Points))
	}
	if result.DroppedNoRate != 1 {
		t.Errorf("DroppedNoRate = %d, want 1", result.DroppedNoRate)
	}
	for _, p := range result.Points {
		if contracts.DateKey(p.Date) == "2024-01-03" {
			t.Error("date with no matching rate must not be emitted")
		}
	}
}

func TestConvertCarryForward(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 72000),
		pricePoint(3, 74000), // rate missing, prior rate is 2 days back
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
	}

	// Default policy drops
	result := Convert(prices, rates, Options{})
	if len(result.Points) != 1 {
		t.Fatalf("drop-on-missing: got %d points, want 1", len(result.Points))
	}

	// Opt-in carry-forward reuses the most recent prior rate
	result = Convert(prices, rates, Options{CarryForward: true})
	if len(result.Points) != 2 {
		t.Fatalf("carry-forward: got %d points, want 2", len(result.Points))
	}
	if result.Points[1].ExchangeRate != 1450 {
		t.Errorf("carried-forward rate = %v, want 1450", result.Points[1].ExchangeRate)
	}
}

func TestConvertCarryForwardLookbackBound(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(10, 72000), // nearest prior rate is 9 days back
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
	}

	result := Convert(prices, rates, Options{CarryForward: true, MaxLookbackDays: 4})
	if len(result.Points) != 0 {
		t.Errorf("rate beyond look-back bound must not be carried forward, got %d points", len(result.Points))
	}
	if result.DroppedNoRate != 1 {
		t.Errorf("DroppedNoRate = %d, want 1", result.DroppedNoRate)
	}
}

func TestConvertInvalidRate(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 72000),
		pricePoint(2, 73000),
		pricePoint(3, 74000),
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
		ratePoint(2, 0),  // invalid: zero rate
		ratePoint(3, -5), // invalid: negative rate
	}

	result := Convert(prices, rates, Options{})

	if len(result.Points) != 1 {
		t.Fatalf("got %d points, want 1 (invalid rates skipped)", len(result.Points))
	}
	if result.DroppedInvalid != 2 {
		t.Errorf("DroppedInvalid = %d, want 2", result.DroppedInvalid)
	}
	// The single bad rate must not void the rest of the series
	if result.Status != StatusOK {
		t.Errorf("Status = %v, want %v", result.Status, StatusOK)
	}
}

func TestConvertNonPositivePrice(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 0),
		pricePoint(2, 73000),
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
		ratePoint(2, 1460),
	}

	result := Convert(prices, rates, Options{})
	if len(result.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(result.Points))
	}
	if result.DroppedInvalid != 1 {
		t.Errorf("DroppedInvalid = %d, want 1", result.DroppedInvalid)
	}
}

func TestConvertEmptyInputs(t *testing.T) {
	rates := []contracts.RatePoint{ratePoint(1, 1450)}
	prices := []contracts.PricePoint{pricePoint(1, 72000)}

	result := Convert(nil, rates, Options{})
	if result.Status != StatusNoPriceData {
		t.Errorf("empty prices: Status = %v, want %v", result.Status, StatusNoPriceData)
	}
	if len(result.Points) != 0 {
		t.Errorf("empty prices: got %d points, want 0", len(result.Points))
	}

	result = Convert(prices, nil, Options{})
	if result.Status != StatusNoRateData {
		t.Errorf("empty rates: Status = %v, want %v", result.Status, StatusNoRateData)
	}
	if len(result.Points) != 0 {
		t.Errorf("empty rates: got %d points, want 0", len(result.Points))
	}
}

func TestConvertDateBounds(t *testing.T) {
	prices := []contracts.PricePoint{
		pricePoint(1, 72000),
		pricePoint(2, 73000),
		pricePoint(3, 74000),
		pricePoint(4, 75000),
	}
	rates := []contracts.RatePoint{
		ratePoint(1, 1450),
		ratePoint(2, 1460),
		ratePoint(3, 1470),
		ratePoint(4, 1480),
	}

	result := Convert(prices, rates, Options{Start: day(2), End: day(3)})

	if len(result.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(result.Points))
	}
	if !result.Points[0].Date.Equal(day(2)) || !result.Points[1].Date.Equal(day(3)) {
		t.Errorf("bounds not applied: got %s..%s",
			contracts.DateKey(result.Points[0].Date), contracts.DateKey(result.Points[1].Date))
	}
}

func TestConvertPreservesOrder(t *testing.T) {
	var prices []contracts.PricePoint
	var rates []contracts.RatePoint
	for d := 1; d <= 20; d++ {
		prices = append(prices, pricePoint(d, 70000+float64(d)*100))
		rates = append(rates, ratePoint(d, 1400+float64(d)))
	}

	result := Convert(prices, rates, Options{})

	if len(result.Points) != 20 {
		t.Fatalf("got %d points, want 20", len(result.Points))
	}
	for i := 1; i < len(result.Points); i++ {
		if !result.Points[i].Date.After(result.Points[i-1].Date) {
			t.Fatalf("output not strictly ascending at index %d", i)
		}
	}
}
