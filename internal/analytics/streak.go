package analytics

import (
	"time"

	"fokus/internal/models"
	"fokus/internal/timeutil"
)

// UpdateStreak advances streak bookkeeping given today's focus total.
// It is evaluated once per session finish and once at startup; both
// call sites compare LastActiveDate against the current day, so the
// function is idempotent within a day.
//
// A day counts toward the streak when its focus minutes meet the daily
// goal. A gap of more than one day since the last counted day resets
// the streak. Longest is re-asserted on every change.
func UpdateStreak(streak models.Streak, todaySeconds int, goals models.Goals, now time.Time) models.Streak {
	today := timeutil.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	// LastActiveDate may have been through a UTC round trip in storage,
	// shifting it onto a different calendar day than the one it was
	// recorded on. Compare day keys in now's frame so "same day" means
	// the same local day regardless of the stored location.
	lastKey := ""
	if streak.LastActiveDate != nil {
		lastKey = timeutil.DayKey(streak.LastActiveDate.In(now.Location()))
	}

	met := goals.Daily > 0 && todaySeconds/60 >= goals.Daily

	if met {
		switch lastKey {
		case timeutil.DayKey(today):
			// Already counted today.
		case timeutil.DayKey(yesterday):
			streak.Current++
			streak.LastActiveDate = &today
		default:
			streak.Current = 1
			streak.LastActiveDate = &today
		}
	} else if lastKey != "" && lastKey < timeutil.DayKey(yesterday) {
		// Missed at least one full day. Day keys sort lexically.
		streak.Current = 0
	}

	if streak.Longest < streak.Current {
		streak.Longest = streak.Current
	}
	return streak
}
