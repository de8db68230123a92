package civiltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	// UTC-полночь 10 марта = 19:00 предыдущего дня в Лиме
	utc := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got := Normalize(utc)

	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 9, got.Day())
	assert.Equal(t, 19, got.Hour())

	// Доля секунды отбрасывается
	withNanos := time.Date(2025, 3, 10, 12, 0, 0, 999999999, Location)
	assert.Equal(t, 0, Normalize(withNanos).Nanosecond())

	// Нулевое время остается нулевым
	assert.True(t, Normalize(time.Time{}).IsZero())
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 3, 10, 9, 0, 0, 0, Location)
	b := time.Date(2025, 3, 10, 23, 30, 0, 0, Location)

	// Одна и та же дата — 0 независимо от времени суток
	assert.Equal(t, 0, DaysBetween(a, b))

	assert.Equal(t, 1, DaysBetween(a, b.AddDate(0, 0, 1)))
	assert.Equal(t, 4, DaysBetween(a, time.Date(2025, 3, 14, 0, 0, 0, 0, Location)))
	assert.Equal(t, -1, DaysBetween(b, a.AddDate(0, 0, -1)))
}

func TestEachDay(t *testing.T) {
	from := time.Date(2025, 3, 10, 15, 0, 0, 0, Location)
	to := time.Date(2025, 3, 12, 8, 0, 0, 0, Location)

	days := EachDay(from, to)
	require.Len(t, days, 3)
	assert.Equal(t, 10, days[0].Day())
	assert.Equal(t, 11, days[1].Day())
	assert.Equal(t, 12, days[2].Day())

	// Один день
	single := EachDay(from, from)
	require.Len(t, single, 1)

	// Обратный интервал — пустой результат
	assert.Empty(t, EachDay(to, from))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2025, 2, 15, 12, 0, 0, 0, Location))
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 28, last.Day())
	assert.Equal(t, time.February, last.Month())

	// Месяц с 31 днем
	_, last = MonthBounds(time.Date(2025, 3, 1, 0, 0, 0, 0, Location))
	assert.Equal(t, 31, last.Day())
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 0, 1, 0, Location)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, Location)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}
