package timefmt

import (
	"testing"
	"time"
)

func TestLocalFormats(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 1, 13, 5, 0, 0, time.UTC)

	if got := Local(ts, FormatDateTime, loc); got != "March 1, 2024 at 3:05 PM" {
		t.Fatalf("unexpected date-time format %q", got)
	}
	if got := Local(ts, FormatDefault, loc); got != "3:05pm - March 1, 2024" {
		t.Fatalf("unexpected default format %q", got)
	}
	midnight := time.Date(2024, 12, 31, 22, 0, 0, 0, time.UTC)
	if got := Local(midnight, FormatDefault, loc); got != "12:00am - January 1, 2025" {
		t.Fatalf("expected 12-hour midnight, got %q", got)
	}
}

func TestLocalString(t *testing.T) {
	got, ok := LocalString("2024-03-01T09:30:00Z", FormatDefault, time.UTC)
	if !ok || got != "9:30am - March 1, 2024" {
		t.Fatalf("unexpected %q (ok=%v)", got, ok)
	}
	if _, ok := LocalString("", FormatDefault, time.UTC); ok {
		t.Fatalf("expected blank stamp to be skipped")
	}
	if _, ok := LocalString("yesterday", FormatDefault, time.UTC); ok {
		t.Fatalf("expected invalid stamp to be skipped")
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{-5 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3*time.Hour + 59*time.Minute, "3h ago"},
		{30 * time.Hour, "6:00am - March 1, 2024"},
	}
	for _, tt := range tests {
		if got := Relative(now.Add(-tt.ago), now, time.UTC); got != tt.want {
			t.Fatalf("Relative(-%s): expected %q, got %q", tt.ago, tt.want, got)
		}
	}
}
