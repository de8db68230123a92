package admin_reservations

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

type ReservationsService interface {
	ListAdmin(ctx context.Context, filter domain.AdminReservationsFilter) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
