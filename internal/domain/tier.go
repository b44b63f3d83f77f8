package domain

type Tier string

const (
	TierDayPass Tier = "day-pass"
	TierMonthly Tier = "monthly"
	TierAnnual  Tier = "annual"
)

// TierPrivileges is the quantitative policy bundle a membership tier grants.
// Every field must be populated before a tier can be evaluated; the config
// loader rejects partial records rather than guessing defaults.
type TierPrivileges struct {
	MaxDaysInAdvance        int
	MaxBookingsPerDay       int
	MinBookingDuration      int // minutes
	MaxBookingDuration      int // minutes
	PricePerHourCents       int64
	AllowPrimeTimeBooking   bool
	AllowWeekendBooking     bool
	PriorityBooking         bool
	CancellationWindowHours int
	AllowFreeCancellation   bool
	AllowGuests             bool
	MaxGuestsPerBooking     int
	DiscountPercentage      int
}
