package marketdata

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanFetchFullBackfill(t *testing.T) {
	today := date(2024, 6, 14)

	plan := PlanFetch(time.Time{}, today, 365)

	if !plan.Fetch {
		t.Fatal("Fetch = false, want true for empty series")
	}
	if !plan.FullBackfill {
		t.Error("FullBackfill = false, want true")
	}
	if !plan.To.Equal(today) {
		t.Errorf("To = %v, want %v", plan.To, today)
	}
	wantFrom := today.AddDate(0, 0, -365)
	if !plan.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", plan.From, wantFrom)
	}
}

func TestPlanFetchGap(t *testing.T) {
	latest := date(2024, 6, 10)
	today := date(2024, 6, 14)

	plan := PlanFetch(latest, today, 365)

	if !plan.Fetch {
		t.Fatal("Fetch = false, want true when stored data is stale")
	}
	if plan.FullBackfill {
		t.Error("FullBackfill = true, want false for gap fill")
	}
	wantFrom := date(2024, 6, 11)
	if !plan.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v (day after latest)", plan.From, wantFrom)
	}
	if !plan.To.Equal(today) {
		t.Errorf("To = %v, want %v", plan.To, today)
	}
}

func TestPlanFetchUpToDate(t *testing.T) {
	today := date(2024, 6, 14)

	for _, latest := range []time.Time{today, date(2024, 6, 15)} {
		plan := PlanFetch(latest, today, 365)
		if plan.Fetch {
			t.Errorf("Fetch = true for latest=%v, want no-op", latest)
		}
	}
}

func TestPlanFetchTruncatesTime(t *testing.T) {
	// Intraday timestamps must not create a spurious one-day gap
	latest := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 14, 18, 30, 0, 0, time.UTC)

	plan := PlanFetch(latest, now, 365)
	if plan.Fetch {
		t.Errorf("Fetch = true, want no-op when latest is today")
	}
}

func TestPlanFetchDefaultHistoryDays(t *testing.T) {
	today := date(2024, 6, 14)

	plan := PlanFetch(time.Time{}, today, 0)

	wantFrom := today.AddDate(0, 0, -DefaultHistoryDays)
	if !plan.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v (default %d days)", plan.From, wantFrom, DefaultHistoryDays)
	}
}
