// Package analytics derives scores, progress, and time-bucketed
// summaries from the session log. Every function is a pure projection
// over (sessions, goals, streak, now); recomputing on each render is
// safe and expected.
package analytics

import (
	"math"
	"sort"
	"time"

	"fokus/internal/models"
	"fokus/internal/timeutil"
)

// Stats summarizes focus sessions over a window.
type Stats struct {
	Sessions     []models.Session
	SessionCount int
	TotalSeconds int
	TotalMinutes int
	GoalProgress float64 // 0..100
}

// CategoryShare is one slice of the category breakdown.
type CategoryShare struct {
	CategoryID string
	Seconds    int
	Percent    int
}

// DayTotal is one day's summed focus seconds.
type DayTotal struct {
	Date    time.Time // midnight local
	Seconds int
}

// Range computes stats for focus sessions with start >= from and
// start < to, measured against the given goal in minutes. A zero goal
// yields zero progress rather than a division error.
func Range(sessions []models.Session, from, to time.Time, goalMinutes int) Stats {
	st := Stats{}
	for _, s := range sessions {
		if s.Kind != models.KindFocus {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		st.Sessions = append(st.Sessions, s)
		st.TotalSeconds += s.Duration
	}
	st.SessionCount = len(st.Sessions)
	st.TotalMinutes = st.TotalSeconds / 60
	if goalMinutes > 0 {
		st.GoalProgress = math.Min(100, float64(st.TotalMinutes)/float64(goalMinutes)*100)
	}
	return st
}

// Today computes stats for the current calendar day against the daily goal.
func Today(sessions []models.Session, goals models.Goals, now time.Time) Stats {
	day := timeutil.StartOfDay(now)
	return Range(sessions, day, day.AddDate(0, 0, 1), goals.Daily)
}

// Week computes stats for the current week (Monday 00:00 local) against
// the weekly goal.
func Week(sessions []models.Session, goals models.Goals, now time.Time) Stats {
	start := timeutil.StartOfWeek(now)
	return Range(sessions, start, start.AddDate(0, 0, 7), goals.Weekly)
}

// FocusScore blends goal attainment, session volume, and streak into a
// 0-100 engagement score. Goal progress carries half the weight; the
// volume and consistency bonuses are capped so no factor dominates.
func FocusScore(today Stats, streak models.Streak) int {
	volume := math.Min(float64(today.SessionCount)*10, 30)
	consistency := math.Min(float64(streak.Current)*2, 20)
	score := math.Round(today.GoalProgress*0.5 + volume + consistency)
	return int(math.Min(100, score))
}

// CategoryBreakdown sums focus seconds per category, sorted by share
// descending. Sessions without a category land in the uncategorized
// bucket. When nothing is recorded the result is empty and percentages
// are all zero.
func CategoryBreakdown(sessions []models.Session) []CategoryShare {
	totals := make(map[string]int)
	total := 0
	for _, s := range sessions {
		if s.Kind != models.KindFocus {
			continue
		}
		totals[s.Category()] += s.Duration
		total += s.Duration
	}

	out := make([]CategoryShare, 0, len(totals))
	for id, secs := range totals {
		share := CategoryShare{CategoryID: id, Seconds: secs}
		if total > 0 {
			share.Percent = int(math.Round(float64(secs) / float64(total) * 100))
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// Intensity buckets a day's focus seconds for heat-map display:
// 0h -> 0, <2h -> 1, <4h -> 2, <6h -> 3, >=6h -> 4.
func Intensity(seconds int) int {
	hours := float64(seconds) / 3600
	switch {
	case hours == 0:
		return 0
	case hours < 2:
		return 1
	case hours < 4:
		return 2
	case hours < 6:
		return 3
	default:
		return 4
	}
}

// DailyTotals sums focus seconds per calendar day for the last n days,
// oldest first, ending with today. Days without sessions are present
// with zero seconds.
func DailyTotals(sessions []models.Session, now time.Time, n int) []DayTotal {
	byDay := make(map[string]int)
	for _, s := range sessions {
		if s.Kind != models.KindFocus {
			continue
		}
		byDay[timeutil.DayKey(s.StartTime)] += s.Duration
	}

	out := make([]DayTotal, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := timeutil.StartOfDay(now.AddDate(0, 0, -i))
		out = append(out, DayTotal{Date: day, Seconds: byDay[timeutil.DayKey(day)]})
	}
	return out
}

// BestDay picks the day with the most focus time over the last 7 days.
// Ties go to the earliest day in the window. ok is false when every day
// is empty, so callers can render "no data" instead of an arbitrary day.
func BestDay(sessions []models.Session, now time.Time) (day DayTotal, ok bool) {
	for _, d := range DailyTotals(sessions, now, 7) {
		if d.Seconds > day.Seconds {
			day = d
			ok = true
		}
	}
	return day, ok
}
