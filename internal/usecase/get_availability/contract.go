package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	OccupiedRoomSlots(ctx context.Context, roomID int64, date time.Time) ([]time.Time, error)
	GetBookWindow(ctx context.Context, bookID int64, from, to time.Time) ([]*domain.Reservation, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
