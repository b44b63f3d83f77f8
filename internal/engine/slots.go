package engine

import "github.com/clubcourt/courtbook/internal/domain"

// Slots enumerates candidate start times inside an operating window at the
// given granularity, minutes from midnight, ascending. A slot is included
// only if its full duration fits before close, so a window shorter than one
// slot yields an empty sequence.
func Slots(hours domain.DayHours, granularityMinutes int) []int {
	if hours.Closed || granularityMinutes <= 0 {
		return nil
	}
	var slots []int
	for t := hours.Open; t+granularityMinutes <= hours.Close; t += granularityMinutes {
		slots = append(slots, t)
	}
	return slots
}
