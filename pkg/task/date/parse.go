package date

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrParsing = errors.New("error parsing date")

// Parse reads a reminder expression relative to now.
// Supported: "now", "today", "tomorrow", weekdays, optionally followed by a
// time of day ("tomorrow 14:30"), relative offsets ("in 10 minutes", "2h",
// "3 days ago"), a bare time of day ("17:00", the next occurrence) and
// absolute dates ("2024-05-01 14:30", "2024-05-01T14:30", "1/05/2024").
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, ErrParsing
	}
	if s == "now" {
		return now, nil
	}
	if t, err := parseAbsolute(s, now); err == nil {
		return t, nil
	}
	if t, err := parseClock(s, now); err == nil {
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}
	if d, err := parseOffset(s); err == nil {
		return now.Add(d), nil
	}
	return parseDay(s, now)
}

// parseDay handles "today", "tomorrow" and weekdays with an optional time suffix
func parseDay(s string, now time.Time) (time.Time, error) {
	hour, min := DefaultHour, 0
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		if h, m, err := splitClock(strings.TrimSpace(s[i+1:])); err == nil {
			hour, min = h, m
			s = strings.TrimSpace(s[:i])
		}
	}
	switch s {
	case "today", "tod":
		return at(now, hour, min), nil
	case "tomorrow", "tom":
		return at(now.AddDate(0, 0, 1), hour, min), nil
	}
	wkd, err := parseWeekday(s)
	if err != nil {
		return time.Time{}, ErrParsing
	}
	days := int(wkd - now.Weekday())
	if days <= 0 {
		days += 7
	}
	return at(now.AddDate(0, 0, days), hour, min), nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for i := time.Sunday; i <= time.Saturday; i++ {
		fmt := strings.ToLower(i.String())
		if s == fmt || s == fmt[:3] {
			return i, nil
		}
	}
	return 0, errors.New("invalid weekday")
}

func parseClock(s string, now time.Time) (time.Time, error) {
	h, m, err := splitClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return at(now, h, m), nil
}

func splitClock(s string) (int, int, error) {
	for _, f := range []string{"15:04", "3pm", "3:04pm"} {
		t, err := time.Parse(f, s)
		if err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, errors.New("invalid time of day")
}

var absoluteFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02t15:04",
	"2006-01-02",
	"_2/01/2006 15:04",
	"_2/01/2006",
	"_2/01/06",
	"_2 Jan 2006 15:04",
	"_2 Jan 2006",
	"_2 January 2006",
}

func parseAbsolute(s string, now time.Time) (time.Time, error) {
	for _, f := range absoluteFormats {
		t, err := time.ParseInLocation(f, s, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(f, "15:04") {
			t = at(t, DefaultHour, 0)
		}
		return t, nil
	}
	return time.Time{}, errors.New("format not found")
}

type multiplier struct {
	key   string
	value time.Duration
}

const day = 24 * time.Hour

// order matters, the first key matching a prefix wins ("m" is minutes, "mo" months)
var multipliers = []multiplier{
	{"minutes", time.Minute},
	{"hours", time.Hour},
	{"days", day},
	{"weeks", 7 * day},
	{"months", 30 * day},
	{"years", 365 * day},
}

func parseOffset(s string) (time.Duration, error) {
	s = strings.TrimPrefix(s, "in")
	s = strings.TrimSpace(s)
	var (
		n        int
		negative bool
	)
	if len(s) >= 1 {
		if s[0] == '-' {
			negative = true
			s = s[1:]
		} else if s[0] == '+' {
			s = s[1:]
		}
	}
	// parse quantity
	{
		s1, n1, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		n = n1
		s = strings.TrimSpace(s1)
	}

	// a bare number is a number of minutes
	unit := time.Minute
	if len(s) > 0 {
		unit = 0
		endOfWord := len(s)
		for i, c := range s {
			if c == ' ' {
				endOfWord = i
				break
			}
		}
		word := s[:endOfWord]
		for _, m := range multipliers {
			if len(word) <= len(m.key) && m.key[:len(word)] == word {
				unit = m.value
				break
			}
			// plural suffix is optional
			if word == strings.TrimSuffix(m.key, "s") {
				unit = m.value
				break
			}
		}
		rest := strings.TrimSpace(s[endOfWord:])
		switch rest {
		case "":
		case "ago":
			negative = true
		default:
			return 0, errors.New("unexpected trailing text")
		}
		if unit == 0 {
			return 0, errors.New("invalid suffix, expected 'minutes', 'hours', 'days', 'weeks', 'months', or 'years'")
		}
	}

	if n > int(math.MaxInt64/int64(unit)) {
		return 0, errors.New("offset out of range")
	}
	d := time.Duration(n) * unit
	if negative {
		d *= -1
	}
	return d, nil
}

func parseInt(s string) (string, int, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return s, 0, errors.New("failed to parse")
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return s, 0, err
	}
	return s[i:], n, nil
}
