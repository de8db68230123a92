package get_availability

import (
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// dailyLoad считает для каждого дня отрезка [from, to] количество активных
// резерваций, чьё окно покрывает этот день. Чистая функция: вся арифметика
// доступности собрана здесь и покрыта тестами без БД.
func dailyLoad(from, to time.Time, reservations []*domain.Reservation) []DayLoad {
	days := civiltime.EachDay(from, to)
	load := make([]DayLoad, len(days))

	for i, day := range days {
		count := 0
		for _, rsv := range reservations {
			if !rsv.IsActive() {
				continue
			}
			if covers(rsv, day) {
				count++
			}
		}
		load[i] = DayLoad{Date: day, Count: count}
	}

	return load
}

// fullDates выбирает дни, на которых загрузка достигла стока
func fullDates(load []DayLoad, stockTotal int) []time.Time {
	full := make([]time.Time, 0)
	for _, day := range load {
		if day.Count >= stockTotal {
			full = append(full, day.Date)
		}
	}
	return full
}

// covers проверяет, что гражданская дата попадает в окно резервации
// (границы включительно)
func covers(rsv *domain.Reservation, day time.Time) bool {
	return !day.Before(civiltime.Date(rsv.StartsAt)) && !day.After(civiltime.Date(rsv.EndsAt))
}

// formatSlots переводит стартовые моменты в "HH:MM"
func formatSlots(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, ts := range slots {
		out[i] = ts.Format(domain.TimeFormat)
	}
	return out
}
