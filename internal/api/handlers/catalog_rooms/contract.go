package catalog_rooms

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

type CatalogService interface {
	CreateRoom(ctx context.Context, input *catalog.CreateRoomInput) (*domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRooms(ctx context.Context, filter catalogstore.RoomsFilter) ([]*domain.Room, error)
	UpdateRoom(ctx context.Context, id int64, update catalog.RoomUpdate) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
