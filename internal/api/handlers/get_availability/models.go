package get_availability

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/BNP-ReservationService/internal/usecase/get_availability"
)

// RoomDayResponse занятость зала на дату
type RoomDayResponse struct {
	RoomID        int64    `json:"roomId"`
	RoomName      string   `json:"roomName"`
	Date          string   `json:"date"`
	OccupiedSlots []string `json:"occupiedSlots"`
}

// DayLoadResponse загрузка одного дня месяца
type DayLoadResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// BookMonthResponse покалендарная загрузка книги
type BookMonthResponse struct {
	BookID     int64             `json:"bookId"`
	Title      string            `json:"title"`
	StockTotal int               `json:"stockTotal"`
	Days       []DayLoadResponse `json:"days"`
	FullDates  []string          `json:"fullDates"`
}

// FromRoomDayResponse конвертирует ответ use case в HTTP response
func FromRoomDayResponse(resp *getAvailability.RoomDayResponse) *RoomDayResponse {
	return &RoomDayResponse{
		RoomID:        resp.RoomID,
		RoomName:      resp.RoomName,
		Date:          resp.Date.Format(domain.DateFormat),
		OccupiedSlots: resp.OccupiedSlots,
	}
}

// FromBookMonthResponse конвертирует ответ use case в HTTP response
func FromBookMonthResponse(resp *getAvailability.BookMonthResponse) *BookMonthResponse {
	days := make([]DayLoadResponse, len(resp.Days))
	for i, d := range resp.Days {
		days[i] = DayLoadResponse{Date: d.Date.Format(domain.DateFormat), Count: d.Count}
	}

	full := make([]string, len(resp.FullDates))
	for i, d := range resp.FullDates {
		full[i] = d.Format(domain.DateFormat)
	}

	return &BookMonthResponse{
		BookID:     resp.BookID,
		Title:      resp.Title,
		StockTotal: resp.StockTotal,
		Days:       days,
		FullDates:  full,
	}
}
