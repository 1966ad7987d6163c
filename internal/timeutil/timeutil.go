// Package timeutil provides the duration formatting and calendar
// bucketing helpers shared by the timer, analytics, and CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// FormatClock renders seconds as mm:ss, or h:mm:ss past the hour mark.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	if hrs > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// FormatDuration renders seconds as a human duration like "2h 30m".
func FormatDuration(seconds int) string {
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60

	switch {
	case hrs > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	case hrs > 0:
		return fmt.Sprintf("%dh", hrs)
	case mins > 0:
		return fmt.Sprintf("%dm", mins)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatMinutes renders whole minutes as a human duration.
func FormatMinutes(minutes int) string {
	return FormatDuration(minutes * 60)
}

// StartOfDay returns midnight local time for t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 local time for t's calendar week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()) - 1
	if offset < 0 {
		offset = 6 // Sunday
	}
	return day.AddDate(0, 0, -offset)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DayKey returns a stable per-day bucket key (YYYY-MM-DD, local time).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// RelativeDate renders a date as "Today", "Yesterday", or "Jan 2"
// relative to now.
func RelativeDate(t, now time.Time) string {
	switch {
	case SameDay(t, now):
		return "Today"
	case SameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format("Jan 2")
	}
}

// Greeting returns a salutation for the hour of day.
func Greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
