package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSchedule = errors.New("invalid weekly schedule")

// DayHours is one weekday's operating window, minutes from midnight,
// half-open [Open, Close).
type DayHours struct {
	Open   int
	Close  int
	Closed bool
}

// WeeklySchedule maps every weekday to its operating hours. A court-level
// schedule may override the organization schedule per weekday.
type WeeklySchedule map[time.Weekday]DayHours

// Validate rejects a window that is empty, inverted, or outside the day.
// A closed day carries no window at all.
func (h DayHours) Validate() error {
	if h.Closed {
		return nil
	}
	if h.Open < 0 || h.Close > 24*60 || h.Open >= h.Close {
		return fmt.Errorf("%w: window %s-%s", ErrInvalidSchedule, FormatClock(h.Open), FormatClock(h.Close))
	}
	return nil
}

// Validate rejects a schedule missing a weekday or with a non-closed day
// whose window is empty or inverted. Schedules are validated when loaded,
// never per request.
func (s WeeklySchedule) Validate() error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		h, ok := s[d]
		if !ok {
			return fmt.Errorf("%w: missing entry for %s", ErrInvalidSchedule, d)
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

// ValidateWindows checks only the weekdays present, for partial schedules
// such as per-court overrides that fall back to the organization hours on
// the days they omit.
func (s WeeklySchedule) ValidateWindows() error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		h, ok := s[d]
		if !ok {
			continue
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

// ParseClock converts an "HH:MM" wall-clock string to minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || h*60+m > 24*60 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
