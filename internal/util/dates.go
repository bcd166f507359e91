package util

import (
	"time"
)

// DateOnly truncates t to midnight UTC of its calendar day in t's own location.
// Every date column is written and compared in this form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DaysBetween counts calendar days from start to end, 0 when they are the same day.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// StartOfWeek returns the Monday on or before day.
func StartOfWeek(day time.Time) time.Time {
	day = DateOnly(day)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(day time.Time) time.Time {
	y, m, _ := day.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// Clock yields the current date in the service timezone.
type Clock interface {
	Today() time.Time
}

type zoneClock struct {
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return zoneClock{loc: loc}
}

func (c zoneClock) Today() time.Time {
	return DateOnly(time.Now().In(c.loc))
}

// FixedClock always reports the same day.
type FixedClock time.Time

func (f FixedClock) Today() time.Time {
	return DateOnly(time.Time(f))
}
