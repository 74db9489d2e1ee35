package date

import (
	"math"
	"strconv"
	"time"
)

// DefaultHour is used when an expression names a day but no time of day
const DefaultHour = 9

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func at(day time.Time, hour, min int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, min, 0, 0, day.Location())
}

// DaysBetween counts calendar days from a to b, negative if b is before a
func DaysBetween(a, b time.Time) int {
	a = StartOfDay(a)
	b = StartOfDay(b.In(a.Location()))
	// round, since DST days are not exactly 24 hours
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Relative renders a reminder timestamp relative to now,
// e.g. "Today at 14:30", "In 3 days", "2 days ago"
func Relative(t, now time.Time) string {
	clock := t.Format("15:04")
	switch days := DaysBetween(now, t); {
	case days == 0:
		return "Today at " + clock
	case days == 1:
		return "Tomorrow at " + clock
	case days == -1:
		return "Yesterday at " + clock
	case days < 0:
		return strconv.Itoa(-days) + " days ago"
	case days <= 7:
		return "In " + strconv.Itoa(days) + " days"
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Until renders the time left before t, rounded to minutes,
// e.g. "in 4m" or "3m ago"
func Until(t, now time.Time) string {
	d := t.Sub(now).Round(time.Minute)
	if d < 0 {
		return (-d).String() + " ago"
	}
	return "in " + d.String()
}
