package engine

import (
	"testing"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSlots_Deterministic(t *testing.T) {
	// 08:00-09:30 at 30 min: 09:00 is the last start, its end touches close.
	window := domain.DayHours{Open: 8 * 60, Close: 9*60 + 30}

	slots := Slots(window, 30)

	assert.Equal(t, []int{480, 510, 540}, slots)
	// Pure function of its inputs, restartable.
	assert.Equal(t, slots, Slots(window, 30))
}

func TestSlots_WindowShorterThanGranularity(t *testing.T) {
	window := domain.DayHours{Open: 8 * 60, Close: 8*60 + 20}
	assert.Empty(t, Slots(window, 30))
}

func TestSlots_UnevenWindowStopsBeforeClose(t *testing.T) {
	// 08:00-09:50 at 45 min: 08:45 ends 09:30, next would end past close.
	window := domain.DayHours{Open: 8 * 60, Close: 9*60 + 50}

	slots := Slots(window, 45)

	assert.Equal(t, []int{480, 525}, slots)
}

func TestSlots_ClosedDay(t *testing.T) {
	assert.Empty(t, Slots(domain.DayHours{Closed: true}, 30))
}
