package engine

import "github.com/clubcourt/courtbook/internal/domain"

// Overlaps reports whether two half-open minute intervals [s1,e1) and
// [s2,e2) intersect. Touching intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// HasConflict tests a candidate interval against bookings already holding
// the same court and date. The caller supplies only the bookings that occupy
// slots (confirmed, plus unexpired pending holds); this function never
// queries storage.
func HasConflict(startMinute, endMinute int, existing []domain.Booking) bool {
	for _, b := range existing {
		if Overlaps(startMinute, endMinute, b.StartMinute, b.EndMinute) {
			return true
		}
	}
	return false
}
