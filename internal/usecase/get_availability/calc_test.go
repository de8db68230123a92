package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, civiltime.Location)
}

func loan(from, to int, state domain.ReservationState) *domain.Reservation {
	return &domain.Reservation{
		StartsAt: day(from),
		EndsAt:   time.Date(2025, 3, to, 23, 59, 59, 0, civiltime.Location),
		State:    state,
	}
}

func TestDailyLoad(t *testing.T) {
	reservations := []*domain.Reservation{
		loan(10, 12, domain.StatePending),
		loan(11, 13, domain.StateDelivered),
		loan(10, 14, domain.StateFinalized), // терминальная не считается
	}

	load := dailyLoad(day(10), day(14), reservations)
	require.Len(t, load, 5)

	counts := make([]int, len(load))
	for i, dl := range load {
		counts[i] = dl.Count
	}
	assert.Equal(t, []int{1, 2, 2, 1, 0}, counts)
	assert.Equal(t, day(10), load[0].Date)
	assert.Equal(t, day(14), load[4].Date)
}

func TestFullDates(t *testing.T) {
	load := []DayLoad{
		{Date: day(10), Count: 1},
		{Date: day(11), Count: 2},
		{Date: day(12), Count: 3},
		{Date: day(13), Count: 0},
	}

	full := fullDates(load, 2)
	require.Len(t, full, 2)
	assert.Equal(t, day(11), full[0])
	assert.Equal(t, day(12), full[1])

	assert.Empty(t, fullDates(load, 4))
}

func TestFormatSlots(t *testing.T) {
	slots := []time.Time{
		time.Date(2025, 3, 10, 8, 0, 0, 0, civiltime.Location),
		time.Date(2025, 3, 10, 14, 30, 0, 0, civiltime.Location),
	}
	assert.Equal(t, []string{"08:00", "14:30"}, formatSlots(slots))
	assert.Empty(t, formatSlots(nil))
}
