package engine

import (
	"testing"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func booked(start, end int) domain.Booking {
	return domain.Booking{StartMinute: start, EndMinute: end, Status: domain.BookingStatusConfirmed}
}

func TestHasConflict_TouchingIntervalsDoNotConflict(t *testing.T) {
	existing := []domain.Booking{booked(9*60, 10*60)}

	// [10:00,11:00) starts exactly where [09:00,10:00) ends.
	assert.False(t, HasConflict(10*60, 11*60, existing))
}

func TestHasConflict_PartialOverlap(t *testing.T) {
	existing := []domain.Booking{booked(10*60+30, 11*60+30)}

	assert.True(t, HasConflict(10*60, 11*60, existing))
}

func TestHasConflict_Cases(t *testing.T) {
	testCases := []struct {
		name     string
		start    int
		end      int
		existing []domain.Booking
		want     bool
	}{
		{"empty existing set", 10 * 60, 11 * 60, nil, false},
		{"identical interval", 10 * 60, 11 * 60, []domain.Booking{booked(10*60, 11*60)}, true},
		{"candidate contains existing", 9 * 60, 12 * 60, []domain.Booking{booked(10*60, 11*60)}, true},
		{"existing contains candidate", 10 * 60, 11 * 60, []domain.Booking{booked(9*60, 12*60)}, true},
		{"candidate ends where existing starts", 9 * 60, 10 * 60, []domain.Booking{booked(10*60, 11*60)}, false},
		{"disjoint before", 8 * 60, 9 * 60, []domain.Booking{booked(10*60, 11*60)}, false},
		{"one of several overlaps", 10 * 60, 11 * 60, []domain.Booking{booked(8*60, 9*60), booked(10*60+45, 12*60)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasConflict(tc.start, tc.end, tc.existing))
		})
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	assert.True(t, Overlaps(600, 660, 630, 690))
	assert.True(t, Overlaps(630, 690, 600, 660))
	assert.False(t, Overlaps(600, 660, 660, 720))
	assert.False(t, Overlaps(660, 720, 600, 660))
}
