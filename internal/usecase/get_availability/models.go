package get_availability

import "time"

// RoomDayRequest запрос занятости зала на гражданскую дату
type RoomDayRequest struct {
	RoomID int64
	Date   time.Time
}

// RoomDayResponse занятые стартовые моменты зала на дату.
// OccupiedSlots отформатированы как "HH:MM" по возрастанию.
type RoomDayResponse struct {
	RoomID        int64
	RoomName      string
	Date          time.Time
	OccupiedSlots []string
}

// BookMonthRequest запрос календаря доступности книги на месяц.
// Month — любой момент внутри интересующего месяца.
type BookMonthRequest struct {
	BookID int64
	Month  time.Time
}

// DayLoad загрузка одного дня: количество активных займов, покрывающих день
type DayLoad struct {
	Date  time.Time
	Count int
}

// BookMonthResponse покалендарная загрузка книги.
// FullDates — даты, на которые свободных экземпляров не осталось.
type BookMonthResponse struct {
	BookID     int64
	Title      string
	StockTotal int
	Days       []DayLoad
	FullDates  []time.Time
}
