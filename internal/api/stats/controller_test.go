package stats

import (
	"testing"
	"time"
)

func TestBucketByDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) // a Monday

	timestamps := []time.Time{
		now.Add(-1 * time.Hour),
		now.Add(-2 * time.Hour),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -6).Add(30 * time.Minute),
	}

	days := bucketByDay(now, timestamps)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}

	if days[0].Date != "2026-08-25" || days[6].Date != "2026-08-31" {
		t.Errorf("range wrong: %s .. %s", days[0].Date, days[6].Date)
	}
	if days[6].Name != "Seg" {
		t.Errorf("weekday label for Monday = %q, want Seg", days[6].Name)
	}

	wantCounts := []int{1, 0, 0, 1, 0, 0, 2}
	for i, want := range wantCounts {
		if days[i].Msgs != want {
			t.Errorf("day %s count = %d, want %d", days[i].Date, days[i].Msgs, want)
		}
	}
}

func TestBucketByDayEmpty(t *testing.T) {
	days := bucketByDay(time.Now().UTC(), nil)
	if len(days) != 7 {
		t.Fatalf("expected 7 zero-filled days, got %d", len(days))
	}
	for _, d := range days {
		if d.Msgs != 0 {
			t.Errorf("day %s should be zero, got %d", d.Date, d.Msgs)
		}
	}
}
