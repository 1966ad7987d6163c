package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{-5, "00:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatClock(c.seconds), "seconds=%d", c.seconds)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{45, "45s"},
		{0, "0s"},
		{60, "1m"},
		{1800, "30m"},
		{3600, "1h"},
		{9000, "2h 30m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.seconds), "seconds=%d", c.seconds)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "4h", FormatMinutes(240))
	assert.Equal(t, "2h 30m", FormatMinutes(150))
	assert.Equal(t, "45m", FormatMinutes(45))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 42, 7, 123, time.UTC)
	got := StartOfDay(ts)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
	}{
		{"monday itself", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)},
		{"midweek", time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC)},
		{"saturday", time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
		{"sunday rolls back to prior monday", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		assert.Equal(t, monday, StartOfWeek(c.in), c.name)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-14", DayKey(ts))
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", RelativeDate(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Yesterday", RelativeDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Mar 10", RelativeDate(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), now))
}

func TestGreeting(t *testing.T) {
	day := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "Good morning", Greeting(day(6)))
	assert.Equal(t, "Good morning", Greeting(day(11)))
	assert.Equal(t, "Good afternoon", Greeting(day(12)))
	assert.Equal(t, "Good afternoon", Greeting(day(17)))
	assert.Equal(t, "Good evening", Greeting(day(18)))
	assert.Equal(t, "Good evening", Greeting(day(23)))
}
