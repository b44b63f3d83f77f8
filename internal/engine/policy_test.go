package engine

import (
	"testing"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) // a Tuesday

func dayPassPrivileges() domain.TierPrivileges {
	return domain.TierPrivileges{
		MaxDaysInAdvance:        3,
		MaxBookingsPerDay:       1,
		MinBookingDuration:      60,
		MaxBookingDuration:      60,
		PricePerHourCents:       3000,
		CancellationWindowHours: 48,
	}
}

func annualPrivileges() domain.TierPrivileges {
	return domain.TierPrivileges{
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
	}
}

func request(date time.Time, startMinute, duration int) Request {
	return Request{
		CourtID:         1,
		UserID:          "member-1",
		Tier:            domain.TierAnnual,
		Date:            date,
		StartMinute:     startMinute,
		DurationMinutes: duration,
	}
}

func TestEvaluate_DayPassAdvanceLimit(t *testing.T) {
	priv := dayPassPrivileges()
	req := request(testNow.AddDate(0, 0, 5), 10*60, 60)
	req.Tier = domain.TierDayPass

	d := Evaluate(req, priv, 0, testNow, DefaultPolicy())

	assert.False(t, d.Valid)
	assert.Equal(t, ReasonOutsideAdvanceWindow, d.Reason)
	assert.Contains(t, d.Message, "day-pass")
	assert.Contains(t, d.Message, "3 days")
}

func TestEvaluate_AdvanceWindowBoundary(t *testing.T) {
	priv := dayPassPrivileges()

	// Exactly maxDaysInAdvance out is still allowed.
	d := Evaluate(request(testNow.AddDate(0, 0, 3), 10*60, 60), priv, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)
}

func TestEvaluate_OrderAdvanceBeforeDuration(t *testing.T) {
	priv := dayPassPrivileges()
	// Violates both the advance window (5 > 3) and duration bounds (30 < 60):
	// the advance window is checked first and must be the reason reported.
	req := request(testNow.AddDate(0, 0, 5), 10*60, 30)

	d := Evaluate(req, priv, 0, testNow, DefaultPolicy())

	assert.Equal(t, ReasonOutsideAdvanceWindow, d.Reason)
}

func TestEvaluate_DurationBounds(t *testing.T) {
	priv := annualPrivileges()
	tomorrow := testNow.AddDate(0, 0, 1)

	testCases := []struct {
		name     string
		duration int
		valid    bool
	}{
		{"below minimum", 15, false},
		{"at minimum", 30, true},
		{"at maximum", 180, true},
		{"above maximum", 210, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(request(tomorrow, 10*60, tc.duration), priv, 0, testNow, DefaultPolicy())
			assert.Equal(t, tc.valid, d.Valid)
			if !tc.valid {
				assert.Equal(t, ReasonDurationOutOfBounds, d.Reason)
			}
		})
	}
}

func TestEvaluate_PrimeTimeGating(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1)
	req := request(tomorrow, 18*60, 60) // 18:00 start

	d := Evaluate(req, annualPrivileges(), 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)

	monthly := annualPrivileges()
	monthly.AllowPrimeTimeBooking = false
	req.Tier = domain.TierMonthly

	d = Evaluate(req, monthly, 0, testNow, DefaultPolicy())
	assert.False(t, d.Valid)
	assert.Equal(t, ReasonPrimeTimeRestricted, d.Reason)
	assert.Contains(t, d.Message, "monthly")
}

func TestEvaluate_PrimeTimeBandEdges(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1)
	restricted := annualPrivileges()
	restricted.AllowPrimeTimeBooking = false

	// 16:30 start is before the band, 21:00 start is past it.
	d := Evaluate(request(tomorrow, 16*60+30, 60), restricted, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)

	d = Evaluate(request(tomorrow, 21*60, 60), restricted, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)

	d = Evaluate(request(tomorrow, 17*60, 60), restricted, 0, testNow, DefaultPolicy())
	assert.Equal(t, ReasonPrimeTimeRestricted, d.Reason)
}

func TestEvaluate_WeekendGating(t *testing.T) {
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	restricted := annualPrivileges()
	restricted.AllowWeekendBooking = false

	d := Evaluate(request(saturday, 10*60, 60), restricted, 0, testNow, DefaultPolicy())

	assert.False(t, d.Valid)
	assert.Equal(t, ReasonWeekendRestricted, d.Reason)

	d = Evaluate(request(saturday, 10*60, 60), annualPrivileges(), 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)
}

func TestEvaluate_DailyQuota(t *testing.T) {
	priv := annualPrivileges() // maxBookingsPerDay = 3
	tomorrow := testNow.AddDate(0, 0, 1)

	// Third existing booking blocks a fourth.
	d := Evaluate(request(tomorrow, 10*60, 60), priv, 3, testNow, DefaultPolicy())
	assert.False(t, d.Valid)
	assert.Equal(t, ReasonDailyQuotaExceeded, d.Reason)

	// With two existing the third is admitted, with a last-booking warning.
	d = Evaluate(request(tomorrow, 10*60, 60), priv, 2, testNow, DefaultPolicy())
	assert.True(t, d.Valid)
	assert.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "3 of 3")

	// First of the day carries no warning.
	d = Evaluate(request(tomorrow, 10*60, 60), priv, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)
	assert.Empty(t, d.Warnings)
}

func TestEvaluate_GuestLimits(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1)
	priv := annualPrivileges() // allows up to 3 guests

	req := request(tomorrow, 10*60, 60)
	req.Guests = 2
	d := Evaluate(req, priv, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)

	req.Guests = 4
	d = Evaluate(req, priv, 0, testNow, DefaultPolicy())
	assert.Equal(t, ReasonGuestLimitExceeded, d.Reason)

	noGuests := priv
	noGuests.AllowGuests = false
	req.Guests = 1
	d = Evaluate(req, noGuests, 0, testNow, DefaultPolicy())
	assert.Equal(t, ReasonGuestNotAllowed, d.Reason)

	// Zero guests never triggers the guest checks.
	req.Guests = 0
	d = Evaluate(req, noGuests, 0, testNow, DefaultPolicy())
	assert.True(t, d.Valid)
}

func TestEvaluate_ConfigurablePolicyBands(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1) // Wednesday
	restricted := annualPrivileges()
	restricted.AllowPrimeTimeBooking = false
	restricted.AllowWeekendBooking = false

	policy := PolicyConfig{
		PrimeTimeStartHour: 6,
		PrimeTimeEndHour:   9,
		WeekendDays:        []time.Weekday{time.Wednesday},
	}

	d := Evaluate(request(tomorrow, 7*60, 60), restricted, 0, testNow, policy)
	assert.Equal(t, ReasonPrimeTimeRestricted, d.Reason)

	d = Evaluate(request(tomorrow, 10*60, 60), restricted, 0, testNow, policy)
	assert.Equal(t, ReasonWeekendRestricted, d.Reason)
}

func TestValidateInterval(t *testing.T) {
	testCases := []struct {
		name        string
		start       int
		duration    int
		granularity int
		valid       bool
	}{
		{"aligned hour", 10 * 60, 60, 30, true},
		{"zero duration", 10 * 60, 0, 30, false},
		{"negative duration", 10 * 60, -30, 30, false},
		{"misaligned", 10 * 60, 45, 30, false},
		{"spills past midnight", 23 * 60 + 30, 60, 30, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := ValidateInterval(tc.start, tc.duration, tc.granularity)
			assert.Equal(t, tc.valid, d.Valid)
			if !tc.valid {
				assert.Equal(t, ReasonInvalidInterval, d.Reason)
			}
		})
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	lateTonight := time.Date(2026, 9, 1, 23, 50, 0, 0, time.UTC)
	earlyTomorrow := time.Date(2026, 9, 2, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(lateTonight, earlyTomorrow))
	assert.Equal(t, 0, daysBetween(testNow, testNow))
}
