package utils

import (
	"errors"
	"fmt"
	"time"
)

const ISODateLayout = "2006-01-02"

var (
	// ErrInvalidDate marks a date string that is not a real YYYY-MM-DD
	// calendar date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidTime marks a clock string that is not a valid 24h HH:MM.
	ErrInvalidTime = errors.New("invalid time")
)

// ParseISODate parses a strict YYYY-MM-DD date string. The returned time is
// anchored at UTC midnight so day arithmetic never crosses a DST boundary.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// IsValidDate reports whether s is a well-formed YYYY-MM-DD date.
func IsValidDate(s string) bool {
	_, err := ParseISODate(s)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date string by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(ISODateLayout), nil
}

// MustAddDays is AddDays for dates already known to be valid, typically
// values produced by this package itself.
func MustAddDays(date string, n int) string {
	s, err := AddDays(date, n)
	if err != nil {
		panic(err)
	}
	return s
}

// WeekdayIndex returns the weekday of t with Monday as 0 and Sunday as 6.
func WeekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// MondayOf returns the Monday of the week containing the given date.
func MondayOf(date string) (string, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -WeekdayIndex(t)).Format(ISODateLayout), nil
}

// DaysBetween returns the number of calendar days from a to b, negative
// when b is before a. Both times must be UTC midnights.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ParseClock parses a strict 24h HH:MM clock string into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return h*60 + m, nil
}

// IsValidClock reports whether s is a well-formed HH:MM clock string.
func IsValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// FormatSignedMinutes renders a minute total as ±HH:MM, zero-padded, with a
// leading minus only for negative totals. Zero formats as "00:00".
func FormatSignedMinutes(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

// FormatHumanDate renders a YYYY-MM-DD date as a short label like
// "Mon 27 Jan" for report headings and sheet names.
func FormatHumanDate(date string) string {
	t, err := ParseISODate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02 Jan")
}
