// Package engine decides whether a court reservation request is admitted.
// Every function is pure: state such as existing bookings or tier privileges
// is passed in by the caller, and rejections come back as values, never
// panics. Safe for concurrent use from any number of request handlers.
package engine

// Reason identifies a single rejection cause. Each maps to one user-facing
// message so the caller can render a precise prompt.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonOutsideAdvanceWindow  Reason = "OUTSIDE_ADVANCE_WINDOW"
	ReasonDurationOutOfBounds   Reason = "DURATION_OUT_OF_BOUNDS"
	ReasonPrimeTimeRestricted   Reason = "PRIME_TIME_RESTRICTED"
	ReasonWeekendRestricted     Reason = "WEEKEND_RESTRICTED"
	ReasonDailyQuotaExceeded    Reason = "DAILY_QUOTA_EXCEEDED"
	ReasonGuestNotAllowed       Reason = "GUEST_NOT_ALLOWED"
	ReasonGuestLimitExceeded    Reason = "GUEST_LIMIT_EXCEEDED"
	ReasonSlotConflict          Reason = "SLOT_CONFLICT"
	ReasonOutsideOperatingHours Reason = "OUTSIDE_OPERATING_HOURS"
	ReasonNoActiveMembership    Reason = "NO_ACTIVE_MEMBERSHIP"
	ReasonInvalidInterval       Reason = "INVALID_INTERVAL"
)

// Decision is the admission verdict for one request. Warnings are
// non-blocking notes for an admitted request.
type Decision struct {
	Valid    bool
	Reason   Reason
	Message  string
	Warnings []string
}

func allow(warnings ...string) Decision {
	return Decision{Valid: true, Warnings: warnings}
}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}
