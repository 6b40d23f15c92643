package usecase

import (
	"fmt"
	"time"
)

// CurrentSeason returns the European football season label for a point
// in time, formatted "2025-2026". Seasons roll over on August 1st.
func CurrentSeason(at time.Time) string {
	at = at.UTC()
	year := at.Year()
	if at.Month() < time.August {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}
