package config

import (
	"fmt"

	"github.com/clubcourt/courtbook/internal/domain"
)

// TierRecord mirrors domain.TierPrivileges with pointer fields so that a
// partially written tier in the config file is detectable. A nil field is a
// configuration error, not a default.
type TierRecord struct {
	MaxDaysInAdvance        *int   `yaml:"max_days_in_advance"`
	MaxBookingsPerDay       *int   `yaml:"max_bookings_per_day"`
	MinBookingDuration      *int   `yaml:"min_booking_duration_minutes"`
	MaxBookingDuration      *int   `yaml:"max_booking_duration_minutes"`
	PricePerHourCents       *int64 `yaml:"price_per_hour_cents"`
	AllowPrimeTimeBooking   *bool  `yaml:"allow_prime_time_booking"`
	AllowWeekendBooking     *bool  `yaml:"allow_weekend_booking"`
	PriorityBooking         *bool  `yaml:"priority_booking"`
	CancellationWindowHours *int   `yaml:"cancellation_window_hours"`
	AllowFreeCancellation   *bool  `yaml:"allow_free_cancellation"`
	AllowGuests             *bool  `yaml:"allow_guests"`
	MaxGuestsPerBooking     *int   `yaml:"max_guests_per_booking"`
	DiscountPercentage      *int   `yaml:"discount_percentage"`
}

// TierTable maps tier names to their privilege records. An empty table falls
// back to the built-in defaults for day-pass, monthly and annual.
type TierTable map[string]TierRecord

func (r TierRecord) complete() error {
	missing := func(name string) error {
		return fmt.Errorf("field %s is not set", name)
	}
	switch {
	case r.MaxDaysInAdvance == nil:
		return missing("max_days_in_advance")
	case r.MaxBookingsPerDay == nil:
		return missing("max_bookings_per_day")
	case r.MinBookingDuration == nil:
		return missing("min_booking_duration_minutes")
	case r.MaxBookingDuration == nil:
		return missing("max_booking_duration_minutes")
	case r.PricePerHourCents == nil:
		return missing("price_per_hour_cents")
	case r.AllowPrimeTimeBooking == nil:
		return missing("allow_prime_time_booking")
	case r.AllowWeekendBooking == nil:
		return missing("allow_weekend_booking")
	case r.PriorityBooking == nil:
		return missing("priority_booking")
	case r.CancellationWindowHours == nil:
		return missing("cancellation_window_hours")
	case r.AllowFreeCancellation == nil:
		return missing("allow_free_cancellation")
	case r.AllowGuests == nil:
		return missing("allow_guests")
	case r.MaxGuestsPerBooking == nil:
		return missing("max_guests_per_booking")
	case r.DiscountPercentage == nil:
		return missing("discount_percentage")
	}
	return nil
}

func (t TierTable) Validate() error {
	for name, rec := range t {
		if err := rec.complete(); err != nil {
			return fmt.Errorf("tier %q: %w", name, err)
		}
	}
	return nil
}

// Resolve returns the privileges for a tier name, falling back to the
// built-in defaults when the table has no entry. The second result is false
// for a tier unknown to both.
func (t TierTable) Resolve(tier domain.Tier) (domain.TierPrivileges, bool) {
	if rec, ok := t[string(tier)]; ok {
		return domain.TierPrivileges{
			MaxDaysInAdvance:        *rec.MaxDaysInAdvance,
			MaxBookingsPerDay:       *rec.MaxBookingsPerDay,
			MinBookingDuration:      *rec.MinBookingDuration,
			MaxBookingDuration:      *rec.MaxBookingDuration,
			PricePerHourCents:       *rec.PricePerHourCents,
			AllowPrimeTimeBooking:   *rec.AllowPrimeTimeBooking,
			AllowWeekendBooking:     *rec.AllowWeekendBooking,
			PriorityBooking:         *rec.PriorityBooking,
			CancellationWindowHours: *rec.CancellationWindowHours,
			AllowFreeCancellation:   *rec.AllowFreeCancellation,
			AllowGuests:             *rec.AllowGuests,
			MaxGuestsPerBooking:     *rec.MaxGuestsPerBooking,
			DiscountPercentage:      *rec.DiscountPercentage,
		}, true
	}
	p, ok := defaultTiers[tier]
	return p, ok
}

// defaultTiers is the stock privilege set an organization starts from.
var defaultTiers = map[domain.Tier]domain.TierPrivileges{
	domain.TierDayPass: {
		MaxDaysInAdvance:        3,
		MaxBookingsPerDay:       1,
		MinBookingDuration:      60,
		MaxBookingDuration:      60,
		PricePerHourCents:       3000,
		AllowPrimeTimeBooking:   false,
		AllowWeekendBooking:     false,
		PriorityBooking:         false,
		CancellationWindowHours: 48,
		AllowFreeCancellation:   false,
		AllowGuests:             false,
		MaxGuestsPerBooking:     0,
		DiscountPercentage:      0,
	},
	domain.TierMonthly: {
		MaxDaysInAdvance:        7,
		MaxBookingsPerDay:       2,
		MinBookingDuration:      30,
		MaxBookingDuration:      120,
		PricePerHourCents:       2500,
		AllowPrimeTimeBooking:   false,
		AllowWeekendBooking:     true,
		PriorityBooking:         false,
		CancellationWindowHours: 24,
		AllowFreeCancellation:   false,
		AllowGuests:             true,
		MaxGuestsPerBooking:     1,
		DiscountPercentage:      10,
	},
	domain.TierAnnual: {
		MaxDaysInAdvance:        14,
		MaxBookingsPerDay:       3,
		MinBookingDuration:      30,
		MaxBookingDuration:      180,
		PricePerHourCents:       2000,
		AllowPrimeTimeBooking:   true,
		AllowWeekendBooking:     true,
		PriorityBooking:         true,
		CancellationWindowHours: 12,
		AllowFreeCancellation:   true,
		AllowGuests:             true,
		MaxGuestsPerBooking:     3,
		DiscountPercentage:      20,
	},
}
