package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
)

// Допустимые типы залов
const (
	RoomTypeSala   = "SALA"
	RoomTypeEquipo = "EQUIPO"
)

// Service администрирование каталога: сайты, книги, залы.
// Инвентарные коды генерируются в той же транзакции, что и вставка,
// иначе конкурирующие создания получают одинаковый счётчик.
type Service struct {
	catalog      CatalogRepository
	reservations ReservationCounter
	txManager    TransactionManager
	log          Logger
}

// NewService создает сервис каталога
func NewService(catalog CatalogRepository, reservations ReservationCounter, txManager TransactionManager, log Logger) *Service {
	return &Service{
		catalog:      catalog,
		reservations: reservations,
		txManager:    txManager,
		log:          log,
	}
}

// ---------------------------------------------------------------
// Сайты
// ---------------------------------------------------------------

// CreateSite создает сайт со сгенерированным кодом SED-NNN
func (s *Service) CreateSite(ctx context.Context, input *CreateSiteInput) (*domain.Site, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: site name is required", ErrInvalidInput)
	}

	var created *domain.Site
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		code, err := s.catalog.NextSiteCode(ctx)
		if err != nil {
			return fmt.Errorf("%w: failed to generate site code: %v", ErrInternal, err)
		}

		created, err = s.catalog.CreateSite(ctx, &domain.Site{
			Code:    code,
			Name:    input.Name,
			Address: input.Address,
			Phone:   input.Phone,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create site: %v", ErrInternal, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, s.mapTxError(txErr)
	}

	s.log.Info("Catalog.CreateSite: created id=%d code=%s", created.ID, created.Code)
	return created, nil
}

// GetSite возвращает сайт по ID
func (s *Service) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	site, err := s.catalog.GetSite(ctx, id)
	if err != nil {
		if errors.Is(err, catalogstore.ErrSiteNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSiteNotFound, id)
		}
		s.log.Error("Catalog.GetSite: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return site, nil
}

// ListSites возвращает сайты; onlyActive=true — только активные
func (s *Service) ListSites(ctx context.Context, onlyActive bool) ([]*domain.Site, error) {
	sites, err := s.catalog.ListSites(ctx, onlyActive)
	if err != nil {
		s.log.Error("Catalog.ListSites: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return sites, nil
}

// UpdateSite частично обновляет сайт (код не редактируется)
func (s *Service) UpdateSite(ctx context.Context, id int64, update SiteUpdate) (*domain.Site, error) {
	if err := s.catalog.UpdateSite(ctx, id, update.toMap()); err != nil {
		if errors.Is(err, catalogstore.ErrSiteNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSiteNotFound, id)
		}
		s.log.Error("Catalog.UpdateSite: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.GetSite(ctx, id)
}

// DeleteSite физически удаляет сайт без инвентаря
func (s *Service) DeleteSite(ctx context.Context, id int64) error {
	if err := s.catalog.DeleteSite(ctx, id); err != nil {
		switch {
		case errors.Is(err, catalogstore.ErrSiteNotFound):
			return fmt.Errorf("%w: id %d", ErrSiteNotFound, id)
		case errors.Is(err, catalogstore.ErrSiteHasInventory):
			return fmt.Errorf("%w: id %d", ErrSiteHasInventory, id)
		default:
			s.log.Error("Catalog.DeleteSite: id=%d: %v", id, err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}
	s.log.Info("Catalog.DeleteSite: deleted id=%d", id)
	return nil
}

// ---------------------------------------------------------------
// Книги
// ---------------------------------------------------------------

// CreateBook создает книгу со сгенерированным инвентарным кодом
func (s *Service) CreateBook(ctx context.Context, input *CreateBookInput) (*domain.Book, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: book title is required", ErrInvalidInput)
	}
	if input.SiteID <= 0 {
		return nil, fmt.Errorf("%w: site id must be positive", ErrInvalidInput)
	}
	if input.StockTotal <= 0 {
		return nil, fmt.Errorf("%w: stock total must be positive", ErrInvalidInput)
	}

	var created *domain.Book
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		code, err := s.catalog.NextInventoryCode(ctx, input.SiteID, domain.KindBook)
		if err != nil {
			if errors.Is(err, catalogstore.ErrSiteNotFound) {
				return fmt.Errorf("%w: id %d", ErrSiteNotFound, input.SiteID)
			}
			return fmt.Errorf("%w: failed to generate inventory code: %v", ErrInternal, err)
		}

		created, err = s.catalog.CreateBook(ctx, &domain.Book{
			InventoryCode: &code,
			Title:         input.Title,
			Author:        input.Author,
			ISBN:          input.ISBN,
			Category:      input.Category,
			SiteID:        input.SiteID,
			StockTotal:    input.StockTotal,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create book: %v", ErrInternal, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, s.mapTxError(txErr)
	}

	s.log.Info("Catalog.CreateBook: created id=%d code=%s", created.ID, *created.InventoryCode)
	return created, nil
}

// GetBook возвращает книгу по ID
func (s *Service) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.catalog.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, catalogstore.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, id)
		}
		s.log.Error("Catalog.GetBook: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return book, nil
}

// ListBooks возвращает книги по фильтру
func (s *Service) ListBooks(ctx context.Context, filter catalogstore.BooksFilter) ([]*domain.Book, error) {
	books, err := s.catalog.ListBooks(ctx, filter)
	if err != nil {
		s.log.Error("Catalog.ListBooks: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return books, nil
}

// UpdateBook частично обновляет книгу (инвентарный код не редактируется)
func (s *Service) UpdateBook(ctx context.Context, id int64, update BookUpdate) (*domain.Book, error) {
	if update.StockTotal != nil && *update.StockTotal <= 0 {
		return nil, fmt.Errorf("%w: stock total must be positive", ErrInvalidInput)
	}

	if err := s.catalog.UpdateBook(ctx, id, update.toMap()); err != nil {
		if errors.Is(err, catalogstore.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, id)
		}
		s.log.Error("Catalog.UpdateBook: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.GetBook(ctx, id)
}

// DeleteBook физически удаляет книгу без истории резерваций.
// Книга с историей может быть только деактивирована через UpdateBook.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.deleteResource(ctx, domain.ResourceRef{Kind: domain.KindBook, ID: id})
}

// ---------------------------------------------------------------
// Залы / оборудование
// ---------------------------------------------------------------

// CreateRoom создает зал или единицу оборудования
func (s *Service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*domain.Room, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if input.SiteID <= 0 {
		return nil, fmt.Errorf("%w: site id must be positive", ErrInvalidInput)
	}
	if input.RoomType != RoomTypeSala && input.RoomType != RoomTypeEquipo {
		return nil, fmt.Errorf("%w: room type must be %s or %s", ErrInvalidInput, RoomTypeSala, RoomTypeEquipo)
	}

	var created *domain.Room
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		code, err := s.catalog.NextInventoryCode(ctx, input.SiteID, domain.KindRoom)
		if err != nil {
			if errors.Is(err, catalogstore.ErrSiteNotFound) {
				return fmt.Errorf("%w: id %d", ErrSiteNotFound, input.SiteID)
			}
			return fmt.Errorf("%w: failed to generate inventory code: %v", ErrInternal, err)
		}

		created, err = s.catalog.CreateRoom(ctx, &domain.Room{
			InventoryCode: &code,
			Name:          input.Name,
			RoomType:      input.RoomType,
			SiteID:        input.SiteID,
			Capacity:      input.Capacity,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create room: %v", ErrInternal, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, s.mapTxError(txErr)
	}

	s.log.Info("Catalog.CreateRoom: created id=%d code=%s", created.ID, *created.InventoryCode)
	return created, nil
}

// GetRoom возвращает зал по ID
func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.catalog.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, catalogstore.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		s.log.Error("Catalog.GetRoom: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return room, nil
}

// ListRooms возвращает залы по фильтру
func (s *Service) ListRooms(ctx context.Context, filter catalogstore.RoomsFilter) ([]*domain.Room, error) {
	rooms, err := s.catalog.ListRooms(ctx, filter)
	if err != nil {
		s.log.Error("Catalog.ListRooms: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return rooms, nil
}

// UpdateRoom частично обновляет зал (инвентарный код не редактируется)
func (s *Service) UpdateRoom(ctx context.Context, id int64, update RoomUpdate) (*domain.Room, error) {
	if update.RoomType != nil && *update.RoomType != RoomTypeSala && *update.RoomType != RoomTypeEquipo {
		return nil, fmt.Errorf("%w: room type must be %s or %s", ErrInvalidInput, RoomTypeSala, RoomTypeEquipo)
	}

	if err := s.catalog.UpdateRoom(ctx, id, update.toMap()); err != nil {
		if errors.Is(err, catalogstore.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		s.log.Error("Catalog.UpdateRoom: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.GetRoom(ctx, id)
}

// DeleteRoom физически удаляет зал без истории резерваций
func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	return s.deleteResource(ctx, domain.ResourceRef{Kind: domain.KindRoom, ID: id})
}

// deleteResource общий путь физического удаления с guard-ом по истории
func (s *Service) deleteResource(ctx context.Context, ref domain.ResourceRef) error {
	if ref.ID <= 0 {
		return fmt.Errorf("%w: resource id must be positive", ErrInvalidInput)
	}

	notFound := ErrRoomNotFound
	storeNotFound := catalogstore.ErrRoomNotFound
	del := s.catalog.DeleteRoom
	if ref.Kind == domain.KindBook {
		notFound = ErrBookNotFound
		storeNotFound = catalogstore.ErrBookNotFound
		del = s.catalog.DeleteBook
	}

	count, err := s.reservations.CountByResource(ctx, ref)
	if err != nil {
		s.log.Error("Catalog.deleteResource: count %s id=%d: %v", ref.Kind, ref.ID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s id %d has %d reservations", ErrHasReservations, ref.Kind, ref.ID, count)
	}

	if err := del(ctx, ref.ID); err != nil {
		if errors.Is(err, storeNotFound) {
			return fmt.Errorf("%w: id %d", notFound, ref.ID)
		}
		s.log.Error("Catalog.deleteResource: delete %s id=%d: %v", ref.Kind, ref.ID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.log.Info("Catalog.deleteResource: deleted %s id=%d", ref.Kind, ref.ID)
	return nil
}

func (s *Service) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrSiteNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.log.Error("Catalog: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
