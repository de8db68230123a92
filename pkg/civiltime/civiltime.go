// Package civiltime работает с "наивным" гражданским временем библиотеки.
// Все даты в системе хранятся как локальное время Перу (UTC-5, без перехода
// на летнее время) без метаданных зоны. Любой входящий timestamp должен быть
// пропущен через Normalize до сравнения или записи в БД.
package civiltime

import "time"

// Location фиксированное смещение UTC-5 (hora Perú)
var Location = time.FixedZone("America/Lima", -5*60*60)

// Now возвращает текущее гражданское время с точностью до секунды
func Now() time.Time {
	return Normalize(time.Now())
}

// Normalize переводит timestamp в гражданское время фиксированного смещения.
// Время без зоны трактуется как уже гражданское; доля секунды отбрасывается.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, Location)
}

// Date обнуляет компонент времени, оставляя только гражданскую дату
func Date(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// SameDay проверяет, что два timestamp приходятся на одну гражданскую дату
func SameDay(a, b time.Time) bool {
	return Date(a).Equal(Date(b))
}

// DaysBetween возвращает количество календарных дней от даты a до даты b.
// Для одной и той же даты результат 0, для следующего дня 1 и т.д.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)) / (24 * time.Hour))
}

// EachDay возвращает все гражданские даты отрезка [from, to] включительно
func EachDay(from, to time.Time) []time.Time {
	days := make([]time.Time, 0)
	for d := Date(from); !d.After(Date(to)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthBounds возвращает первую и последнюю дату месяца, содержащего t
func MonthBounds(t time.Time) (time.Time, time.Time) {
	t = t.In(Location)
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, Location)
	last := first.AddDate(0, 1, -1)
	return first, last
}
