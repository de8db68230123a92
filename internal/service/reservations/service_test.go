package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	reservationstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// ============================================================
// Фейки зависимостей
// ============================================================

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	byID map[int64]*domain.Reservation
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	rsv, ok := f.byID[id]
	if !ok {
		return nil, reservationstore.ErrReservationNotFound
	}
	out := *rsv
	return &out, nil
}

func (f *fakeRepo) GetByUser(ctx context.Context, dni string, state *domain.ReservationState) ([]*domain.Reservation, error) {
	out := make([]*domain.Reservation, 0)
	for _, rsv := range f.byID {
		if rsv.UserDNI != dni {
			continue
		}
		if state != nil && rsv.State != *state {
			continue
		}
		c := *rsv
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeRepo) ListAdmin(ctx context.Context, filter domain.AdminReservationsFilter) ([]*domain.Reservation, error) {
	out := make([]*domain.Reservation, 0)
	for _, rsv := range f.byID {
		if filter.State != nil && rsv.State != *filter.State {
			continue
		}
		c := *rsv
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStateIf(ctx context.Context, id int64, from, to domain.ReservationState, checkedInAt, checkedOutAt *time.Time) error {
	rsv, ok := f.byID[id]
	if !ok || rsv.State != from {
		return reservationstore.ErrStateConflict
	}
	rsv.State = to
	return nil
}

// ============================================================
// Окружение теста
// ============================================================

type env struct {
	repo  *fakeRepo
	clock *fakeClock
	svc   *Service
}

// newEnv собирает сервис с одной pending-резервацией зала на 10 марта 10:00
func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		repo: &fakeRepo{byID: map[int64]*domain.Reservation{
			1: {
				ID:       1,
				Code:     "SA-3F9A1C",
				UserDNI:  "12345678",
				Resource: domain.ResourceRef{Kind: domain.KindRoom, ID: 1},
				StartsAt: time.Date(2025, 3, 10, 10, 0, 0, 0, civiltime.Location),
				EndsAt:   time.Date(2025, 3, 10, 12, 0, 0, 0, civiltime.Location),
				State:    domain.StatePending,
			},
		}},
		clock: &fakeClock{now: time.Date(2025, 3, 10, 7, 0, 0, 0, civiltime.Location)},
	}
	e.svc = NewService(e.repo, fakeTxManager{}, domain.DefaultPolicy(), e.clock, nopLogger{})
	return e
}

// ============================================================
// Сценарии
// ============================================================

func TestGetByID_OwnerAndAdmin(t *testing.T) {
	e := newEnv(t)

	rsv, err := e.svc.GetByID(context.Background(), 1, "12345678", false)
	require.NoError(t, err)
	assert.Equal(t, "SA-3F9A1C", rsv.Code)

	// Чужая резервация недоступна пользователю
	_, err = e.svc.GetByID(context.Background(), 1, "87654321", false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Но доступна администратору
	_, err = e.svc.GetByID(context.Background(), 1, "87654321", true)
	assert.NoError(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.GetByID(context.Background(), 42, "12345678", false)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetUserReservations_StateFilter(t *testing.T) {
	e := newEnv(t)
	e.repo.byID[2] = &domain.Reservation{
		ID:       2,
		UserDNI:  "12345678",
		Resource: domain.ResourceRef{Kind: domain.KindBook, ID: 7},
		State:    domain.StateFinalized,
	}

	all, err := e.svc.GetUserReservations(context.Background(), "12345678", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := domain.StatePending
	filtered, err := e.svc.GetUserReservations(context.Background(), "12345678", &pending)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	bad := domain.ReservationState("waiting")
	_, err = e.svc.GetUserReservations(context.Background(), "12345678", &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_UserWithinWindow(t *testing.T) {
	e := newEnv(t)

	// За 3 часа до начала, окно отмены 2 часа
	rsv, err := e.svc.Cancel(context.Background(), 1, "12345678", false)
	require.NoError(t, err)

	assert.Equal(t, domain.StateCancelled, rsv.State)
	assert.Equal(t, domain.StateCancelled, e.repo.byID[1].State)
}

func TestCancel_UserTooLate(t *testing.T) {
	e := newEnv(t)
	e.clock.now = time.Date(2025, 3, 10, 8, 30, 0, 0, civiltime.Location) // 1.5 часа до начала

	_, err := e.svc.Cancel(context.Background(), 1, "12345678", false)
	assert.ErrorIs(t, err, ErrCancelTooLate)
	assert.Equal(t, domain.StatePending, e.repo.byID[1].State)
}

func TestCancel_AdminBypassesWindow(t *testing.T) {
	e := newEnv(t)
	e.clock.now = time.Date(2025, 3, 10, 9, 59, 0, 0, civiltime.Location)

	rsv, err := e.svc.Cancel(context.Background(), 1, "00000001", true)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCancelled, rsv.State)
}

func TestCancel_ForeignReservation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Cancel(context.Background(), 1, "87654321", false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_NotCancellableStates(t *testing.T) {
	for _, state := range []domain.ReservationState{
		domain.StateInUse, domain.StateDelivered, domain.StateFinalized, domain.StateNoShow, domain.StateCancelled,
	} {
		t.Run(string(state), func(t *testing.T) {
			e := newEnv(t)
			e.repo.byID[1].State = state

			_, err := e.svc.Cancel(context.Background(), 1, "12345678", false)
			assert.ErrorIs(t, err, ErrNotCancellable)
		})
	}
}
