package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Booking is a reservation of one court for a half-open interval
// [StartMinute, EndMinute) on a calendar date. Times are minutes from
// midnight in the organization's local day.
type Booking struct {
	ID            int64
	CourtID       int64
	UserID        string
	Token         string
	Date          time.Time
	StartMinute   int
	EndMinute     int
	Guests        int
	Status        BookingStatus
	Tier          Tier
	PriceCents    int64
	DiscountCents int64
	Currency      string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StartAt is the booking's absolute start instant in loc.
func (b Booking) StartAt(loc *time.Location) time.Time {
	y, m, d := b.Date.Date()
	return time.Date(y, m, d, b.StartMinute/60, b.StartMinute%60, 0, 0, loc)
}
