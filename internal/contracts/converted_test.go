package contracts

import (
	"testing"
	"time"
)

func TestNewUsdConvertedPoint(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	p := NewUsdConvertedPoint(date, 73000, 1460)

	if p.USDClose != 50.0 {
		t.Errorf("USDClose = %v, want 50.0", p.USDClose)
	}
	if !p.IsConsistent() {
		t.Error("freshly derived point must be consistent")
	}
}

func TestUsdConvertedPoint_IsConsistent(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		point UsdConvertedPoint
		want  bool
	}{
		{
			name:  "derived point",
			point: NewUsdConvertedPoint(date, 72000, 1450),
			want:  true,
		},
		{
			name: "stale usd close",
			point: UsdConvertedPoint{
				Date:         date,
				KRWClose:     72000,
				ExchangeRate: 1450,
				USDClose:     51.2, // does not match 72000/1450
			},
			want: false,
		},
		{
			name: "non-positive rate",
			point: UsdConvertedPoint{
				Date:         date,
				KRWClose:     72000,
				ExchangeRate: 0,
				USDClose:     0,
			},
			want: false,
		},
		{
			name: "non-positive close",
			point: UsdConvertedPoint{
				Date:         date,
				KRWClose:     -1,
				ExchangeRate: 1450,
				USDClose:     0,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.IsConsistent(); got != tt.want {
				t.Errorf("IsConsistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)
	if got := DateKey(d); got != "2024-03-05" {
		t.Errorf("DateKey() = %q, want 2024-03-05", got)
	}
}
