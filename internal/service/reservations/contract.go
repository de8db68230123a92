package reservations

import (
	"context"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUser(ctx context.Context, dni string, state *domain.ReservationState) ([]*domain.Reservation, error)
	ListAdmin(ctx context.Context, filter domain.AdminReservationsFilter) ([]*domain.Reservation, error)
	UpdateStateIf(ctx context.Context, id int64, from, to domain.ReservationState, checkedInAt, checkedOutAt *time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее гражданское время
func (p *RealTimeProvider) Now() time.Time {
	return civiltime.Now()
}
