package catalog_books

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

type CatalogService interface {
	CreateBook(ctx context.Context, input *catalog.CreateBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	ListBooks(ctx context.Context, filter catalogstore.BooksFilter) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, update catalog.BookUpdate) (*domain.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
