package engine

import (
	"fmt"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
)

// Request is one reservation attempt, already normalized by the caller:
// the tier is resolved, times are minutes from midnight, and the date is a
// bare calendar day.
type Request struct {
	CourtID         int64
	UserID          string
	Tier            domain.Tier
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	Guests          int
}

func (r Request) EndMinute() int {
	return r.StartMinute + r.DurationMinutes
}

// PolicyConfig holds the org-configurable bands the tier checks gate on.
type PolicyConfig struct {
	PrimeTimeStartHour int
	PrimeTimeEndHour   int
	WeekendDays        []time.Weekday
}

// DefaultPolicy is the stock band set: prime time 17:00-21:00, weekend
// Saturday and Sunday.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		PrimeTimeStartHour: 17,
		PrimeTimeEndHour:   21,
		WeekendDays:        []time.Weekday{time.Saturday, time.Sunday},
	}
}

func (p PolicyConfig) isPrimeTime(startMinute int) bool {
	return startMinute >= p.PrimeTimeStartHour*60 && startMinute < p.PrimeTimeEndHour*60
}

func (p PolicyConfig) isWeekend(d time.Weekday) bool {
	for _, w := range p.WeekendDays {
		if w == d {
			return true
		}
	}
	return false
}

// ValidateInterval rejects malformed intervals before any policy check runs:
// the duration must be a positive multiple of the slot granularity. Seeing
// this rejection means a caller bug, not a user mistake.
func ValidateInterval(startMinute, durationMinutes, granularityMinutes int) Decision {
	if durationMinutes <= 0 || granularityMinutes <= 0 || durationMinutes%granularityMinutes != 0 {
		return deny(ReasonInvalidInterval, fmt.Sprintf("duration %d min is not a positive multiple of the %d min slot granularity", durationMinutes, granularityMinutes))
	}
	if startMinute < 0 || startMinute+durationMinutes > 24*60 {
		return deny(ReasonInvalidInterval, "interval does not fit inside a calendar day")
	}
	return allow()
}

// Evaluate runs the tier privilege checks against one request. The check
// order is a contract: the first failing limit is the one reported, so a
// request violating several limits always names the same one.
//
//  1. advance window
//  2. duration bounds
//  3. prime-time gating
//  4. weekend gating
//  5. daily quota
//  6. guest limits
//
// bookingsToday is the requester's count of slot-holding bookings on the
// requested date, computed by the caller from storage.
func Evaluate(req Request, priv domain.TierPrivileges, bookingsToday int, now time.Time, policy PolicyConfig) Decision {
	if days := daysBetween(now, req.Date); days > priv.MaxDaysInAdvance {
		return deny(ReasonOutsideAdvanceWindow,
			fmt.Sprintf("%s tier allows booking at most %d days in advance, requested %d", req.Tier, priv.MaxDaysInAdvance, days))
	}

	if req.DurationMinutes < priv.MinBookingDuration || req.DurationMinutes > priv.MaxBookingDuration {
		return deny(ReasonDurationOutOfBounds,
			fmt.Sprintf("%s tier bookings must last between %d and %d minutes", req.Tier, priv.MinBookingDuration, priv.MaxBookingDuration))
	}

	if policy.isPrimeTime(req.StartMinute) && !priv.AllowPrimeTimeBooking {
		return deny(ReasonPrimeTimeRestricted,
			fmt.Sprintf("%s tier cannot book prime time (%02d:00-%02d:00)", req.Tier, policy.PrimeTimeStartHour, policy.PrimeTimeEndHour))
	}

	if policy.isWeekend(req.Date.Weekday()) && !priv.AllowWeekendBooking {
		return deny(ReasonWeekendRestricted,
			fmt.Sprintf("%s tier cannot book on %s", req.Tier, req.Date.Weekday()))
	}

	if bookingsToday >= priv.MaxBookingsPerDay {
		return deny(ReasonDailyQuotaExceeded,
			fmt.Sprintf("%s tier allows %d bookings per day", req.Tier, priv.MaxBookingsPerDay))
	}

	if req.Guests > 0 {
		if !priv.AllowGuests {
			return deny(ReasonGuestNotAllowed,
				fmt.Sprintf("%s tier does not include guests", req.Tier))
		}
		if req.Guests > priv.MaxGuestsPerBooking {
			return deny(ReasonGuestLimitExceeded,
				fmt.Sprintf("%s tier allows at most %d guests per booking", req.Tier, priv.MaxGuestsPerBooking))
		}
	}

	if bookingsToday == priv.MaxBookingsPerDay-1 {
		return allow(fmt.Sprintf("this will be your booking %d of %d for the day", priv.MaxBookingsPerDay, priv.MaxBookingsPerDay))
	}
	return allow()
}

// daysBetween counts whole calendar days from now's date to the target
// date, ignoring the time of day on both sides.
func daysBetween(now, date time.Time) int {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := date.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
