package naver

import (
	"testing"
	"time"
)

func TestParsePriceJSON(t *testing.T) {
	tests := []struct {
		name    string
		rawData [][]interface{}
		want    int // Expected number of points
		wantErr bool
	}{
		{
			name: "valid data with header",
			rawData: [][]interface{}{
				{"날짜", "시가", "고가", "저가", "종가", "거래량"}, // Header
				{"20240115", 72300.0, 73000.0, 72000.0, 72500.0, 1000000.0},
				{"20240116", 72500.0, 73500.0, 72300.0, 73000.0, 1200000.0},
			},
			want:    2,
			wantErr: false,
		},
		{
			name: "valid data with string numbers",
			rawData: [][]interface{}{
				{"날짜", "시가", "고가", "저가", "종가", "거래량"},
				{"20240115", "72300", "73000", "72000", "72500", "1000000"},
			},
			want:    1,
			wantErr: false,
		},
		{
			name:    "empty data",
			rawData: [][]interface{}{},
			want:    0,
			wantErr: false,
		},
		{
			name: "data with insufficient columns",
			rawData: [][]interface{}{
				{"날짜", "시가"},
				{"20240115", 72300.0, 73000.0},
			},
			want:    0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}
			got, err := c.parsePriceJSON(tt.rawData)
			if (err != nil) != tt.wantErr {
				t.Errorf("parsePriceJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(got) != tt.want {
				t.Errorf("parsePriceJSON() got %d points, want %d", len(got), tt.want)
			}

			for _, p := range got {
				if p.Date.IsZero() {
					t.Error("parsePriceJSON() Date is zero")
				}
				if p.Close <= 0 {
					t.Error("parsePriceJSON() Close is not positive")
				}
			}
		})
	}
}

func TestParsePriceResponse(t *testing.T) {
	c := &Client{}

	// The chart API returns single-quoted pseudo-JSON
	body := `[['날짜', '시가', '고가', '저가', '종가', '거래량'],
["20240115", 72300, 73000, 72000, 72500, 1000000],
["20240116", 72500, 73500, 72300, 73000, 1200000]]`

	got, err := c.parsePriceResponse(body)
	if err != nil {
		t.Fatalf("parsePriceResponse() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}

	wantDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got[0].Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", got[0].Date, wantDate)
	}
	if got[0].Close != 72500 {
		t.Errorf("Close = %v, want 72500", got[0].Close)
	}
	if got[1].Volume != 1200000 {
		t.Errorf("Volume = %v, want 1200000", got[1].Volume)
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		input interface{}
		want  float64
	}{
		{72300.0, 72300},
		{"72,300", 72300},
		{"\"1450.5\"", 1450.5},
		{int64(100), 100},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := toFloat64(tt.input); got != tt.want {
			t.Errorf("toFloat64(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
