package repository

import (
	"testing"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

type fakeScheduleRows struct {
	rows [][4]any
	i    int
}

func (f *fakeScheduleRows) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeScheduleRows) Scan(dest ...any) error {
	row := f.rows[f.i]
	f.i++
	*dest[0].(*int) = row[0].(int)
	*dest[1].(*int) = row[1].(int)
	*dest[2].(*int) = row[2].(int)
	*dest[3].(*bool) = row[3].(bool)
	return nil
}

func (f *fakeScheduleRows) Err() error { return nil }

func TestScanSchedule(t *testing.T) {
	rows := &fakeScheduleRows{rows: [][4]any{
		{int(time.Monday), 8 * 60, 22 * 60, false},
		{int(time.Sunday), 0, 0, true},
	}}

	schedule, err := scanSchedule(rows)

	assert.NoError(t, err)
	assert.Equal(t, domain.DayHours{Open: 8 * 60, Close: 22 * 60}, schedule[time.Monday])
	assert.True(t, schedule[time.Sunday].Closed)
}

func TestScanSchedule_InvertedOverrideFailsValidation(t *testing.T) {
	// An override row with an inverted window must surface as a configuration
	// error when loaded, not resolve to a day with zero slots.
	rows := &fakeScheduleRows{rows: [][4]any{
		{int(time.Monday), 22 * 60, 8 * 60, false},
	}}

	schedule, err := scanSchedule(rows)
	assert.NoError(t, err)

	err = schedule.ValidateWindows()
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	assert.Contains(t, err.Error(), "Monday")
}

func TestScanSchedule_PartialOverridePassesValidation(t *testing.T) {
	rows := &fakeScheduleRows{rows: [][4]any{
		{int(time.Saturday), 10 * 60, 16 * 60, false},
	}}

	schedule, err := scanSchedule(rows)
	assert.NoError(t, err)
	assert.NoError(t, schedule.ValidateWindows())
}

func TestReserveLockKey(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "bookings:1:2026-09-07", reserveLockKey(1, date))

	// Distinct per court, per day, with no truncation for large ids.
	big := int64(1) << 40
	assert.NotEqual(t, reserveLockKey(big, date), reserveLockKey(big+1, date))
	assert.NotEqual(t, reserveLockKey(1, date), reserveLockKey(1, date.AddDate(0, 0, 1)))
	assert.Equal(t, "bookings:1099511627776:2026-09-07", reserveLockKey(big, date))
}
