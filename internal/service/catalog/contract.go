package catalog

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	NextSiteCode(ctx context.Context) (string, error)
	CreateSite(ctx context.Context, s *domain.Site) (*domain.Site, error)
	GetSite(ctx context.Context, id int64) (*domain.Site, error)
	ListSites(ctx context.Context, onlyActive bool) ([]*domain.Site, error)
	UpdateSite(ctx context.Context, id int64, set map[string]interface{}) error
	DeleteSite(ctx context.Context, id int64) error

	NextInventoryCode(ctx context.Context, siteID int64, kind domain.ResourceKind) (string, error)

	CreateBook(ctx context.Context, b *domain.Book) (*domain.Book, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	ListBooks(ctx context.Context, filter catalogstore.BooksFilter) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, set map[string]interface{}) error
	DeleteBook(ctx context.Context, id int64) error

	CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRooms(ctx context.Context, filter catalogstore.RoomsFilter) ([]*domain.Room, error)
	UpdateRoom(ctx context.Context, id int64, set map[string]interface{}) error
	DeleteRoom(ctx context.Context, id int64) error
}

// ReservationCounter guard физического удаления: ресурс с историей
// резерваций удалять нельзя
type ReservationCounter interface {
	CountByResource(ctx context.Context, ref domain.ResourceRef) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
