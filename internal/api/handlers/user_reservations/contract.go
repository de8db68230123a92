package user_reservations

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

type ReservationsService interface {
	GetByID(ctx context.Context, id int64, requesterDNI string, isAdmin bool) (*domain.Reservation, error)
	GetUserReservations(ctx context.Context, dni string, state *domain.ReservationState) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, requesterDNI string, isAdmin bool) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
