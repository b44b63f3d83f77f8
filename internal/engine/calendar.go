package engine

import (
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
)

// ResolveDay resolves the operating window for one calendar date. A
// court-level override for that weekday takes precedence over the
// organization schedule; a missing entry means the day is closed.
// Schedules are validated at load time, so no error path exists here.
func ResolveDay(schedule, override domain.WeeklySchedule, date time.Time) domain.DayHours {
	wd := date.Weekday()
	if override != nil {
		if h, ok := override[wd]; ok {
			return h
		}
	}
	if h, ok := schedule[wd]; ok {
		return h
	}
	return domain.DayHours{Closed: true}
}
