package get_availability

import (
	"context"
	"errors"
	"fmt"

	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// UseCase чтение доступности: занятость зала на день и календарь книги
// на месяц. Выборки читаются без транзакции — это консультативный снимок,
// окончательное решение всегда принимает контроль допуска при создании.
type UseCase struct {
	reservations ReservationRepository
	catalog      CatalogRepository
	log          Logger
}

// NewUseCase создает экземпляр usecase доступности
func NewUseCase(reservations ReservationRepository, catalog CatalogRepository, log Logger) *UseCase {
	return &UseCase{
		reservations: reservations,
		catalog:      catalog,
		log:          log,
	}
}

// RoomDay возвращает занятые стартовые моменты зала на гражданскую дату
func (u *UseCase) RoomDay(ctx context.Context, req *RoomDayRequest) (*RoomDayResponse, error) {
	if req == nil || req.RoomID <= 0 {
		return nil, fmt.Errorf("%w: room id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := civiltime.Date(civiltime.Normalize(req.Date))

	room, err := u.catalog.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, catalogstore.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, req.RoomID)
		}
		u.log.Error("GetAvailability: failed to load room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to load room: %v", ErrInternal, err)
	}

	slots, err := u.reservations.OccupiedRoomSlots(ctx, req.RoomID, date)
	if err != nil {
		u.log.Error("GetAvailability: failed to load occupied slots room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to load occupied slots: %v", ErrInternal, err)
	}

	return &RoomDayResponse{
		RoomID:        room.ID,
		RoomName:      room.Name,
		Date:          date,
		OccupiedSlots: formatSlots(slots),
	}, nil
}

// BookMonth возвращает покалендарную загрузку книги за месяц и дни
// без свободных экземпляров
func (u *UseCase) BookMonth(ctx context.Context, req *BookMonthRequest) (*BookMonthResponse, error) {
	if req == nil || req.BookID <= 0 {
		return nil, fmt.Errorf("%w: book id must be positive", ErrInvalidInput)
	}
	if req.Month.IsZero() {
		return nil, fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	book, err := u.catalog.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, catalogstore.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, req.BookID)
		}
		u.log.Error("GetAvailability: failed to load book id=%d: %v", req.BookID, err)
		return nil, fmt.Errorf("%w: failed to load book: %v", ErrInternal, err)
	}

	first, last := civiltime.MonthBounds(civiltime.Normalize(req.Month))

	reservations, err := u.reservations.GetBookWindow(ctx, req.BookID, first, last)
	if err != nil {
		u.log.Error("GetAvailability: failed to load loans book=%d: %v", req.BookID, err)
		return nil, fmt.Errorf("%w: failed to load loans: %v", ErrInternal, err)
	}

	load := dailyLoad(first, last, reservations)

	return &BookMonthResponse{
		BookID:     book.ID,
		Title:      book.Title,
		StockTotal: book.StockTotal,
		Days:       load,
		FullDates:  fullDates(load, book.StockTotal),
	}, nil
}
