package config

import (
	"time"

	"github.com/clubcourt/courtbook/internal/engine"
)

// Policy converts the yaml knobs into the engine's policy bands verbatim.
// Defaults are LoadConfig's job; an explicit empty weekend list or a band
// starting at midnight passes through unchanged.
func (b BookingConfig) Policy() engine.PolicyConfig {
	days := make([]time.Weekday, 0, len(b.WeekendDays))
	for _, d := range b.WeekendDays {
		days = append(days, time.Weekday(d))
	}
	return engine.PolicyConfig{
		PrimeTimeStartHour: b.PrimeTimeStartHour,
		PrimeTimeEndHour:   b.PrimeTimeEndHour,
		WeekendDays:        days,
	}
}
