package create_reservation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	reservationstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
	userstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/user"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
	"github.com/m04kA/BNP-ReservationService/pkg/ptr"
)

// ============================================================
// Фейки зависимостей
// ============================================================

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers struct {
	user *domain.User
	err  error
}

func (f *fakeUsers) GetByDNI(ctx context.Context, dni string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeCatalog struct {
	room    *domain.Room
	roomErr error
	book    *domain.Book
	bookErr error
}

func (f *fakeCatalog) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	if f.roomErr != nil {
		return nil, f.roomErr
	}
	return f.room, nil
}

func (f *fakeCatalog) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return f.book, nil
}

type fakeReservations struct {
	occupied    []time.Time
	window      []*domain.Reservation
	roomsOnDate int
	activeLoans int

	createErrs []error // очередь ошибок для последовательных вызовов Create
	created    []*domain.Reservation
}

func (f *fakeReservations) Create(ctx context.Context, rsv *domain.Reservation) (*domain.Reservation, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	out := *rsv
	out.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &out)
	return &out, nil
}

func (f *fakeReservations) OccupiedRoomSlots(ctx context.Context, roomID int64, date time.Time) ([]time.Time, error) {
	return f.occupied, nil
}

func (f *fakeReservations) GetBookWindow(ctx context.Context, bookID int64, from, to time.Time) ([]*domain.Reservation, error) {
	return f.window, nil
}

func (f *fakeReservations) CountUserRoomsOnDate(ctx context.Context, dni string, date time.Time) (int, error) {
	return f.roomsOnDate, nil
}

func (f *fakeReservations) CountUserActiveLoans(ctx context.Context, dni string) (int, error) {
	return f.activeLoans, nil
}

type fakeMetrics struct{ created map[string]int }

func (f *fakeMetrics) IncReservationCreated(kind string) {
	if f.created == nil {
		f.created = make(map[string]int)
	}
	f.created[kind]++
}

// ============================================================
// Окружение теста
// ============================================================

type env struct {
	reservations *fakeReservations
	users        *fakeUsers
	catalog      *fakeCatalog
	clock        *fakeClock
	metrics      *fakeMetrics
	uc           *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		reservations: &fakeReservations{},
		users: &fakeUsers{user: &domain.User{
			DNI:   "12345678",
			Email: "lector@example.pe",
			Name:  "María Quispe",
		}},
		catalog: &fakeCatalog{
			room: &domain.Room{ID: 1, Name: "Sala de Estudio 1", RoomType: "SALA", SiteID: 1, Active: true},
			book: &domain.Book{ID: 7, Title: "Los ríos profundos", Author: "José María Arguedas", SiteID: 1, StockTotal: 2, Active: true},
		},
		clock:   &fakeClock{now: time.Date(2025, 3, 9, 12, 0, 0, 0, civiltime.Location)},
		metrics: &fakeMetrics{},
	}
	e.uc = NewUseCase(
		e.reservations,
		e.users,
		e.catalog,
		fakeTxManager{},
		nil, // без почты
		domain.DefaultPolicy(),
		e.clock,
		e.metrics,
		nopLogger{},
	)
	return e
}

func bookRequest() *Request {
	return &Request{
		UserDNI:    "12345678",
		Kind:       domain.KindBook,
		ResourceID: 7,
		StartsAt:   time.Date(2025, 3, 10, 0, 0, 0, 0, civiltime.Location),
		EndsAt:     time.Date(2025, 3, 14, 23, 59, 59, 0, civiltime.Location),
	}
}

// ============================================================
// Сценарии
// ============================================================

func TestExecute_RoomSuccess(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), validRoomRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Code, "SA-"))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.StatePending, resp.State)
	assert.Equal(t, civiltime.Date(resp.StartsAt), resp.ReferenceDate)
	assert.Equal(t, 1, e.metrics.created["room"])
	require.Len(t, e.reservations.created, 1)
	assert.Equal(t, e.clock.now, e.reservations.created[0].CreatedAt)
}

func TestExecute_BookSuccess(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), bookRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Code, "LI-"))
	assert.Equal(t, 1, e.metrics.created["book"])
}

func TestExecute_UserNotFound(t *testing.T) {
	e := newEnv(t)
	e.users.err = userstore.ErrUserNotFound

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExecute_BannedUser(t *testing.T) {
	e := newEnv(t)
	until := e.clock.now.Add(30 * 24 * time.Hour)
	e.users.user.Strikes = 3
	e.users.user.BannedUntil = &until

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	require.ErrorIs(t, err, ErrBanned)

	var banned *BannedError
	require.ErrorAs(t, err, &banned)
	assert.Equal(t, until, banned.Until)
	assert.Equal(t, 30*24*time.Hour, banned.Remaining)
}

func TestExecute_ExpiredBanDoesNotBlock(t *testing.T) {
	e := newEnv(t)
	until := e.clock.now.Add(-time.Hour)
	e.users.user.BannedUntil = &until

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.NoError(t, err)
}

func TestExecute_RoomNotFound(t *testing.T) {
	e := newEnv(t)
	e.catalog.roomErr = catalogstore.ErrRoomNotFound

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestExecute_RoomInactive(t *testing.T) {
	e := newEnv(t)
	e.catalog.room.Active = false

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrRoomInactive)
}

func TestExecute_SlotTaken(t *testing.T) {
	e := newEnv(t)
	req := validRoomRequest()
	e.reservations.occupied = []time.Time{civiltime.Normalize(req.StartsAt)}

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, e.reservations.created)
}

func TestExecute_SlotRaceLostOnCommit(t *testing.T) {
	// Гонка, пойманная частичным уникальным индексом на вставке
	e := newEnv(t)
	e.reservations.createErrs = []error{reservationstore.ErrSlotTaken}

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_DailyRoomLimit(t *testing.T) {
	e := newEnv(t)
	e.reservations.roomsOnDate = 1 // лимит по умолчанию 1

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrDailyRoomLimit)
}

func TestExecute_InactiveBookLooksNotFound(t *testing.T) {
	e := newEnv(t)
	e.catalog.book.Active = false

	_, err := e.uc.Execute(context.Background(), bookRequest())
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestExecute_LoanTooLong(t *testing.T) {
	e := newEnv(t)
	req := bookRequest()
	req.EndsAt = req.StartsAt.AddDate(0, 0, 5) // 6 календарных дней при лимите 5

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrLoanTooLong)
}

func TestExecute_NoStock(t *testing.T) {
	e := newEnv(t)
	req := bookRequest()

	// Оба экземпляра заняты 12-го
	hold := func(from, to int) *domain.Reservation {
		return &domain.Reservation{
			StartsAt: time.Date(2025, 3, from, 0, 0, 0, 0, civiltime.Location),
			EndsAt:   time.Date(2025, 3, to, 23, 59, 59, 0, civiltime.Location),
			State:    domain.StateDelivered,
		}
	}
	e.reservations.window = []*domain.Reservation{hold(10, 12), hold(12, 14)}

	_, err := e.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrNoStock)

	var noStock *NoStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, 12, noStock.Date.Day())
}

func TestExecute_LoanLimit(t *testing.T) {
	e := newEnv(t)
	e.reservations.activeLoans = 2 // лимит по умолчанию 2

	_, err := e.uc.Execute(context.Background(), bookRequest())
	assert.ErrorIs(t, err, ErrLoanLimit)
}

func TestExecute_CodeCollisionRetried(t *testing.T) {
	e := newEnv(t)
	e.reservations.createErrs = []error{reservationstore.ErrCodeCollision, nil}

	resp, err := e.uc.Execute(context.Background(), validRoomRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Code)
}

func TestExecute_CodeCollisionExhausted(t *testing.T) {
	e := newEnv(t)
	e.reservations.createErrs = []error{
		reservationstore.ErrCodeCollision,
		reservationstore.ErrCodeCollision,
		reservationstore.ErrCodeCollision,
	}

	_, err := e.uc.Execute(context.Background(), validRoomRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_PartySizeKept(t *testing.T) {
	e := newEnv(t)
	req := validRoomRequest()
	req.PartySize = ptr.Ptr(4)
	req.Reason = ptr.Ptr("estudio grupal")

	_, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, e.reservations.created, 1)
	assert.Equal(t, 4, *e.reservations.created[0].PartySize)
}
