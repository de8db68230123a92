package get_availability

import (
	"context"

	getAvailability "github.com/m04kA/BNP-ReservationService/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	RoomDay(ctx context.Context, req *getAvailability.RoomDayRequest) (*getAvailability.RoomDayResponse, error)
	BookMonth(ctx context.Context, req *getAvailability.BookMonthRequest) (*getAvailability.BookMonthResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
