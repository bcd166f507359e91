package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeekIsMonday(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2024-01-15", "2024-01-15"}, // Monday
		{"2024-01-17", "2024-01-15"}, // Wednesday
		{"2024-01-21", "2024-01-15"}, // Sunday
		{"2024-03-01", "2024-02-26"}, // crosses a month boundary
	}
	for _, tc := range cases {
		day, err := ParseDate(tc.day)
		require.NoError(t, err)
		assert.Equal(t, tc.want, FormatDate(StartOfWeek(day)), tc.day)
	}
}

func TestStartOfMonth(t *testing.T) {
	day, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", FormatDate(StartOfMonth(day)))
}

func TestDaysBetween(t *testing.T) {
	start, err := ParseDate("2023-01-01")
	require.NoError(t, err)
	end, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 365, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 29, DaysBetween(time.Date(2024, 2, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)))
}

func TestDateOnlyKeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 01:00 on the 2nd in UTC+10 is still the 1st in UTC
	local := time.Date(2024, 6, 2, 1, 0, 0, 0, loc)
	got := DateOnly(local)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	clock := FixedClock(time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-15", FormatDate(clock.Today()))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 4.33, RoundTo(13.0/3.0, 2))
	assert.Equal(t, 2.5, RoundTo(2.5, 2))
}
