package create_reservation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
	"github.com/m04kA/BNP-ReservationService/pkg/ptr"
)

func validRoomRequest() *Request {
	return &Request{
		UserDNI:    "12345678",
		Kind:       domain.KindRoom,
		ResourceID: 1,
		StartsAt:   time.Date(2025, 3, 10, 10, 0, 0, 0, civiltime.Location),
		EndsAt:     time.Date(2025, 3, 10, 11, 0, 0, 0, civiltime.Location),
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty dni", func(r *Request) { r.UserDNI = "" }},
		{"unknown kind", func(r *Request) { r.Kind = "equipment" }},
		{"zero resource id", func(r *Request) { r.ResourceID = 0 }},
		{"missing starts_at", func(r *Request) { r.StartsAt = time.Time{} }},
		{"missing ends_at", func(r *Request) { r.EndsAt = time.Time{} }},
		{"inverted window", func(r *Request) { r.EndsAt = r.StartsAt.Add(-time.Hour) }},
		{"zero party size", func(r *Request) { r.PartySize = ptr.Ptr(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRoomRequest()
			tt.mutate(req)
			assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
		})
	}

	assert.NoError(t, validateRequest(validRoomRequest()))
	assert.ErrorIs(t, validateRequest(nil), ErrInvalidInput)
}

func TestNormalizeRequest_DerivesReferenceDate(t *testing.T) {
	req := validRoomRequest()
	req.ReferenceDate = time.Time{}

	normalizeRequest(req)

	assert.Equal(t, civiltime.Date(req.StartsAt), req.ReferenceDate)
	assert.Equal(t, 0, req.StartsAt.Nanosecond())
}

func TestSlotTaken(t *testing.T) {
	slot := time.Date(2025, 3, 10, 10, 0, 0, 0, civiltime.Location)
	occupied := []time.Time{
		time.Date(2025, 3, 10, 8, 0, 0, 0, civiltime.Location),
		slot,
	}

	assert.True(t, slotTaken(occupied, slot))
	assert.False(t, slotTaken(occupied, slot.Add(time.Hour)))
	assert.False(t, slotTaken(nil, slot))
}

func TestFirstFullDay(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 0, 0, 0, 0, civiltime.Location)
	}
	loan := func(from, to int, state domain.ReservationState) *domain.Reservation {
		return &domain.Reservation{
			StartsAt: day(from),
			EndsAt:   day(to),
			State:    state,
		}
	}

	t.Run("no existing loans", func(t *testing.T) {
		_, full := firstFullDay(day(10), day(14), nil, 1)
		assert.False(t, full)
	})

	t.Run("stock exhausted mid-window", func(t *testing.T) {
		// Сток 2: 11-го и 12-го заняты оба экземпляра
		existing := []*domain.Reservation{
			loan(10, 12, domain.StatePending),
			loan(11, 13, domain.StateDelivered),
		}
		got, full := firstFullDay(day(10), day(14), existing, 2)
		require.True(t, full)
		assert.Equal(t, day(11), got)
	})

	t.Run("terminal loans do not count", func(t *testing.T) {
		existing := []*domain.Reservation{
			loan(10, 14, domain.StateFinalized),
			loan(10, 14, domain.StateCancelled),
		}
		_, full := firstFullDay(day(10), day(14), existing, 1)
		assert.False(t, full)
	})

	t.Run("single copy single holder", func(t *testing.T) {
		existing := []*domain.Reservation{loan(12, 12, domain.StateDelivered)}
		got, full := firstFullDay(day(10), day(14), existing, 1)
		require.True(t, full)
		assert.Equal(t, day(12), got)
	})
}

func TestNewHumanCode(t *testing.T) {
	code := newHumanCode(domain.KindRoom)
	require.Len(t, code, 9)
	assert.Equal(t, "SA-", code[:3])
	assert.Equal(t, strings.ToUpper(code), code)

	code = newHumanCode(domain.KindBook)
	assert.Equal(t, "LI-", code[:3])
}
