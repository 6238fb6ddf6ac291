package availability

import (
	"fmt"
	"time"
)

// GraceBuffer is how far in the past a requested slot may start and still
// be admitted, absorbing client/server clock skew.
const GraceBuffer = 10 * time.Minute

type Decision string

const (
	Accepted             Decision = "accepted"
	RejectedOutsideHours Decision = "rejected-outside-hours"
	RejectedInPast       Decision = "rejected-in-past"
	RejectedSlotTaken    Decision = "rejected-slot-taken"
)

func (d Decision) Accepted() bool {
	return d == Accepted
}

// WorkingHours are a doctor's open and close times as stored on the profile.
type WorkingHours struct {
	Open  string
	Close string
}

// Window returns the hours as minutes since midnight.
func (h WorkingHours) Window() (opens, closes int, err error) {
	opens, err = ParseTimeOfDay(h.Open)
	if err != nil {
		return 0, 0, fmt.Errorf("opening time: %w", err)
	}
	closes, err = ParseTimeOfDay(h.Close)
	if err != nil {
		return 0, 0, fmt.Errorf("closing time: %w", err)
	}
	return opens, closes, nil
}

// Validate checks that both bounds parse and open is strictly before close.
func (h WorkingHours) Validate() error {
	opens, closes, err := h.Window()
	if err != nil {
		return err
	}
	if opens >= closes {
		return fmt.Errorf("opening time %q must be before closing time %q", h.Open, h.Close)
	}
	return nil
}

// Within reports open <= requested < close. A slot starting exactly at
// closing time is outside.
func Within(opens, closes, requested int) bool {
	return requested >= opens && requested < closes
}

// Check admits or rejects a request on time grounds only. Parse failures are
// returned as errors; the conflict check is the caller's job.
func Check(hours WorkingHours, date, timeOfDay string, now time.Time, loc *time.Location) (Decision, error) {
	opens, closes, err := hours.Window()
	if err != nil {
		return "", err
	}

	requested, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return "", err
	}

	if !Within(opens, closes, requested) {
		return RejectedOutsideHours, nil
	}

	day, err := ParseDate(date, loc)
	if err != nil {
		return "", err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), requested/60, requested%60, 0, 0, loc)
	if start.Before(now.Add(-GraceBuffer)) {
		return RejectedInPast, nil
	}

	return Accepted, nil
}
