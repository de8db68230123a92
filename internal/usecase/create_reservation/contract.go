package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	Create(ctx context.Context, rsv *domain.Reservation) (*domain.Reservation, error)
	OccupiedRoomSlots(ctx context.Context, roomID int64, date time.Time) ([]time.Time, error)
	GetBookWindow(ctx context.Context, bookID int64, from, to time.Time) ([]*domain.Reservation, error)
	CountUserRoomsOnDate(ctx context.Context, dni string, date time.Time) (int, error)
	CountUserActiveLoans(ctx context.Context, dni string) (int, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByDNI(ctx context.Context, dni string) (*domain.User, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
}

// Mailer интерфейс отправки уведомлений
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования).
// Usecase вызывает Now() ровно один раз на запрос: все сравнения внутри
// одной операции используют один и тот же момент времени.
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс бизнес-метрик (опционален)
type Metrics interface {
	IncReservationCreated(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее гражданское время
func (p *RealTimeProvider) Now() time.Time {
	return civiltime.Now()
}
