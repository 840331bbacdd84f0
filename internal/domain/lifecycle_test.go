package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to no_show", StatusPending, StatusNoShow, true},
		{"pending to arrived skips confirmation", StatusPending, StatusArrived, false},
		{"confirmed to arrived", StatusConfirmed, StatusArrived, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to completed skips arrival", StatusConfirmed, StatusCompleted, false},
		{"arrived to completed", StatusArrived, StatusCompleted, true},
		{"arrived to cancelled", StatusArrived, StatusCancelled, true},
		{"arrived to no_show after arrival", StatusArrived, StatusNoShow, false},
		{"completed to confirmed", StatusCompleted, StatusConfirmed, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
		{"no_show to confirmed", StatusNoShow, StatusConfirmed, false},
		{"unknown status", BookingStatus("seated_vip"), StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusArrived.IsTerminal())
	assert.False(t, BookingStatus("bogus").IsTerminal())
}

func TestEffectsFor(t *testing.T) {
	t.Run("confirmation has no side effects", func(t *testing.T) {
		effects := EffectsFor(StatusPending, StatusConfirmed)
		assert.Equal(t, TransitionEffects{}, effects)
	})

	t.Run("arrival increments occupancy and marks occupied", func(t *testing.T) {
		effects := EffectsFor(StatusConfirmed, StatusArrived)
		assert.False(t, effects.ReleaseLedger, "interval stays reserved on arrival")
		assert.Equal(t, 1, effects.OccupancyDelta)
		assert.True(t, effects.RecordArrival)
		assert.True(t, effects.MarkOccupied)
	})

	t.Run("completion releases ledger and decrements occupancy", func(t *testing.T) {
		effects := EffectsFor(StatusArrived, StatusCompleted)
		assert.True(t, effects.ReleaseLedger)
		assert.Equal(t, -1, effects.OccupancyDelta)
		assert.True(t, effects.RecordDeparture)
		assert.True(t, effects.MarkAvailable)
	})

	t.Run("cancel before arrival leaves occupancy untouched", func(t *testing.T) {
		effects := EffectsFor(StatusConfirmed, StatusCancelled)
		assert.True(t, effects.ReleaseLedger)
		assert.Equal(t, 0, effects.OccupancyDelta)
	})

	t.Run("cancel after arrival decrements occupancy", func(t *testing.T) {
		effects := EffectsFor(StatusArrived, StatusCancelled)
		assert.True(t, effects.ReleaseLedger)
		assert.Equal(t, -1, effects.OccupancyDelta)
	})

	t.Run("no_show releases ledger without occupancy change", func(t *testing.T) {
		effects := EffectsFor(StatusConfirmed, StatusNoShow)
		assert.True(t, effects.ReleaseLedger)
		assert.Equal(t, 0, effects.OccupancyDelta)
	})
}

func TestBookingCanBeCancelled(t *testing.T) {
	for _, status := range ActiveStatuses {
		b := Booking{Status: status}
		assert.True(t, b.CanBeCancelled(), "status %s", status)
	}
	for _, status := range InactiveStatuses {
		b := Booking{Status: status}
		assert.False(t, b.CanBeCancelled(), "status %s", status)
	}
}

func TestDefaultStatusForKind(t *testing.T) {
	assert.Equal(t, StatusConfirmed, DefaultStatusForKind(KindAppointment))
	assert.Equal(t, StatusPending, DefaultStatusForKind(KindRestaurant))
	assert.Equal(t, StatusPending, DefaultStatusForKind(KindNightclub))
}
