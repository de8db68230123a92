package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextState_AllowedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  ReservationState
		event Event
		kind  ResourceKind
		want  ReservationState
	}{
		{"room check-in", StatePending, EventCheckIn, KindRoom, StateInUse},
		{"book check-in (entrega)", StatePending, EventCheckIn, KindBook, StateDelivered},
		{"room no-show", StatePending, EventNoShow, KindRoom, StateNoShow},
		{"book no-show", StatePending, EventNoShow, KindBook, StateNoShow},
		{"room cancel", StatePending, EventCancel, KindRoom, StateCancelled},
		{"book cancel", StatePending, EventCancel, KindBook, StateCancelled},
		{"room check-out", StateInUse, EventCheckOut, KindRoom, StateFinalized},
		{"book return", StateDelivered, EventCheckOut, KindBook, StateFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextState(tt.from, tt.event, tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestNextState_ForbiddenTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  ReservationState
		event Event
		kind  ResourceKind
	}{
		// Терминальные состояния не принимают событий
		{"finalized check-in", StateFinalized, EventCheckIn, KindRoom},
		{"cancelled check-in", StateCancelled, EventCheckIn, KindRoom},
		{"no_show check-out", StateNoShow, EventCheckOut, KindRoom},
		{"finalized cancel", StateFinalized, EventCancel, KindBook},
		// Активное состояние одного вида не применимо к другому
		{"in_use for book", StateInUse, EventCheckOut, KindBook},
		{"delivered for room", StateDelivered, EventCheckOut, KindRoom},
		// Отмена возможна только до активации
		{"in_use cancel", StateInUse, EventCancel, KindRoom},
		{"delivered cancel", StateDelivered, EventCancel, KindBook},
		// Повторный check-in
		{"in_use check-in", StateInUse, EventCheckIn, KindRoom},
		{"delivered check-in", StateDelivered, EventCheckIn, KindBook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NextState(tt.from, tt.event, tt.kind)
			assert.False(t, ok)
		})
	}
}

func TestReservationState_IsTerminal(t *testing.T) {
	assert.False(t, StatePending.IsTerminal())
	assert.False(t, StateInUse.IsTerminal())
	assert.False(t, StateDelivered.IsTerminal())
	assert.True(t, StateFinalized.IsTerminal())
	assert.True(t, StateNoShow.IsTerminal())
	assert.True(t, StateCancelled.IsTerminal())
}

func TestReservation_LoanDays(t *testing.T) {
	loc := time.FixedZone("America/Lima", -5*60*60)

	r := &Reservation{
		StartsAt: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		EndsAt:   time.Date(2025, 3, 14, 23, 59, 59, 0, loc),
	}
	assert.Equal(t, 5, r.LoanDays())

	// Однодневный заем
	r.EndsAt = time.Date(2025, 3, 10, 23, 59, 59, 0, loc)
	assert.Equal(t, 1, r.LoanDays())
}

func TestResourceKind_CodePrefix(t *testing.T) {
	assert.Equal(t, "SA", KindRoom.CodePrefix())
	assert.Equal(t, "LI", KindBook.CodePrefix())
}
