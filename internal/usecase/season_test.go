package usecase

import (
	"testing"
	"time"
)

func TestCurrentSeason(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"mid season", time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), "2025-2026"},
		{"july still previous season", time.Date(2026, time.July, 31, 23, 59, 0, 0, time.UTC), "2025-2026"},
		{"august starts new season", time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), "2026-2027"},
		{"december", time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), "2025-2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CurrentSeason(tc.at); got != tc.want {
				t.Fatalf("CurrentSeason(%s) = %q, want %q", tc.at, got, tc.want)
			}
		})
	}
}
