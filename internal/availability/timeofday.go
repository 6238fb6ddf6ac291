// Package availability decides whether a requested appointment time can be
// admitted against a doctor's working hours and the current clock.
package availability

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the fixed day-granularity format stored on appointments.
	DateLayout = "02-01-2006"

	minutesPerDay = 24 * 60
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidDate      = errors.New("invalid date")
)

// ParseError reports the input that failed to parse.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([aApP][mM])$`)

// ParseTimeOfDay converts a 12-hour clock string such as "2:30 pm" into
// minutes since midnight, in [0, 1439].
func ParseTimeOfDay(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &ParseError{Input: s, Err: ErrInvalidTimeOfDay}
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, &ParseError{Input: s, Err: ErrInvalidTimeOfDay}
	}

	hour %= 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}

	return hour*60 + minute, nil
}

// FormatTimeOfDay is the inverse of ParseTimeOfDay, producing "h:mm am".
func FormatTimeOfDay(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour, minute := minutes/60, minutes%60

	meridiem := "am"
	if hour >= 12 {
		meridiem = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

// ParseDate parses a "DD-MM-YYYY" date to midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Err: ErrInvalidDate}
	}
	return d, nil
}

// Canonical returns the fixed-format date and time-of-day strings stored on
// appointments, so "2:30PM" and "2:30 pm" name the same slot.
func Canonical(date, timeOfDay string) (string, string, error) {
	minutes, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return "", "", err
	}
	day, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", "", err
	}
	return day.Format(DateLayout), FormatTimeOfDay(minutes), nil
}
