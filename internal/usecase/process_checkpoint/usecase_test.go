package process_checkpoint

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
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeStore хранит одну резервацию и применяет к ней переходы состояний
type fakeStore struct {
	rsv *domain.Reservation
}

func (f *fakeStore) GetByTokenOrCode(ctx context.Context, key string) (*domain.Reservation, error) {
	if f.rsv == nil || (key != f.rsv.Token && key != f.rsv.Code) {
		return nil, reservationstore.ErrReservationNotFound
	}
	out := *f.rsv
	return &out, nil
}

func (f *fakeStore) UpdateStateIf(ctx context.Context, id int64, from, to domain.ReservationState, checkedInAt, checkedOutAt *time.Time) error {
	if f.rsv == nil || f.rsv.ID != id || f.rsv.State != from {
		return reservationstore.ErrStateConflict
	}
	f.rsv.State = to
	if checkedInAt != nil {
		f.rsv.CheckedInAt = checkedInAt
	}
	if checkedOutAt != nil {
		f.rsv.CheckedOutAt = checkedOutAt
	}
	return nil
}

// fakeUsers повторяет семантику ApplyStrike хранилища: инкремент счётчика
// и бан при достижении лимита
type fakeUsers struct {
	strikes     int
	bannedUntil *time.Time
}

func (f *fakeUsers) GetByDNIForUpdate(ctx context.Context, dni string) (*domain.User, error) {
	return &domain.User{DNI: dni, Strikes: f.strikes, BannedUntil: f.bannedUntil}, nil
}

func (f *fakeUsers) ApplyStrike(ctx context.Context, dni string, now time.Time, strikeLimit int, banFor time.Duration) (*domain.User, error) {
	f.strikes++
	if f.strikes >= strikeLimit {
		until := now.Add(banFor)
		f.bannedUntil = &until
	}
	return &domain.User{DNI: dni, Strikes: f.strikes, BannedUntil: f.bannedUntil}, nil
}

type fakeMetrics struct {
	checkpoints map[string]int
	strikes     int
}

func (f *fakeMetrics) IncCheckpoint(result string) {
	if f.checkpoints == nil {
		f.checkpoints = make(map[string]int)
	}
	f.checkpoints[result]++
}

func (f *fakeMetrics) IncStrikeApplied() { f.strikes++ }

// ============================================================
// Окружение теста
// ============================================================

type env struct {
	store   *fakeStore
	users   *fakeUsers
	clock   *fakeClock
	metrics *fakeMetrics
	uc      *UseCase
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, civiltime.Location)
}

// newEnv собирает usecase с резервацией зала 10:00-12:00 в состоянии pending
func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		store: &fakeStore{rsv: &domain.Reservation{
			ID:       1,
			Code:     "SA-3F9A1C",
			Token:    "11111111-2222-3333-4444-555555555555",
			UserDNI:  "12345678",
			Resource: domain.ResourceRef{Kind: domain.KindRoom, ID: 1},
			StartsAt: at(10, 0),
			EndsAt:   at(12, 0),
			State:    domain.StatePending,
		}},
		users:   &fakeUsers{},
		clock:   &fakeClock{now: at(10, 0)},
		metrics: &fakeMetrics{},
	}
	e.uc = NewUseCase(e.store, e.users, fakeTxManager{}, domain.DefaultPolicy(), e.clock, e.metrics, nopLogger{})
	return e
}

func (e *env) execute(t *testing.T) (*Response, error) {
	t.Helper()
	return e.uc.Execute(context.Background(), &Request{Key: e.store.rsv.Token})
}

func (e *env) asBookLoan() {
	e.store.rsv.Resource.Kind = domain.KindBook
	e.store.rsv.Code = "LI-0B42DE"
	e.store.rsv.StartsAt = time.Date(2025, 3, 10, 0, 0, 0, 0, civiltime.Location)
	e.store.rsv.EndsAt = time.Date(2025, 3, 12, 23, 59, 59, 0, civiltime.Location)
}

// ============================================================
// Сценарии
// ============================================================

func TestExecute_EmptyKey(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Execute(context.Background(), &Request{Key: "SA-FFFFFF"})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_ByHumanCode(t *testing.T) {
	e := newEnv(t)
	resp, err := e.uc.Execute(context.Background(), &Request{Key: "SA-3F9A1C"})
	require.NoError(t, err)
	assert.Equal(t, ResultCheckedIn, resp.Result)
}

func TestExecute_EarlyArrival(t *testing.T) {
	e := newEnv(t)
	e.clock.now = at(9, 40) // окно открывается в 09:45

	_, err := e.execute(t)
	require.ErrorIs(t, err, ErrEarly)

	var early *EarlyError
	require.ErrorAs(t, err, &early)
	assert.Equal(t, at(9, 45), early.OpensAt)
	assert.Equal(t, 5*time.Minute, early.Wait)

	// Состояние не изменилось
	assert.Equal(t, domain.StatePending, e.store.rsv.State)
	assert.Zero(t, e.users.strikes)
}

func TestExecute_GraceWindowArrival(t *testing.T) {
	e := newEnv(t)
	e.clock.now = at(9, 50)

	resp, err := e.execute(t)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInUse, resp.NewState)
}

func TestExecute_OnTimeCheckIn(t *testing.T) {
	e := newEnv(t)
	e.clock.now = at(10, 10)

	resp, err := e.execute(t)
	require.NoError(t, err)

	assert.Equal(t, ResultCheckedIn, resp.Result)
	assert.Equal(t, domain.StateInUse, resp.NewState)
	require.NotNil(t, resp.CheckedInAt)
	assert.Equal(t, at(10, 10), *resp.CheckedInAt)
	assert.Equal(t, 1, e.metrics.checkpoints[ResultCheckedIn])
}

func TestExecute_LateRoomArrival(t *testing.T) {
	e := newEnv(t)
	e.clock.now = at(10, 25) // толерантность 20 минут истекла

	_, err := e.execute(t)
	require.ErrorIs(t, err, ErrLateNoShow)

	var late *LateNoShowError
	require.ErrorAs(t, err, &late)
	assert.Equal(t, 1, late.Strikes)
	assert.Nil(t, late.BannedUntil)

	// Переход и strike зафиксированы несмотря на ошибку вызывающему
	assert.Equal(t, domain.StateNoShow, e.store.rsv.State)
	assert.Equal(t, 1, e.users.strikes)
	assert.Equal(t, 1, e.metrics.strikes)
	assert.Equal(t, 1, e.metrics.checkpoints[ResultNoShow])
}

func TestExecute_LateNoShowTriggersBan(t *testing.T) {
	e := newEnv(t)
	e.clock.now = at(10, 25)
	e.users.strikes = 2 // третий strike достигает лимита

	_, err := e.execute(t)
	require.ErrorIs(t, err, ErrLateNoShow)

	var late *LateNoShowError
	require.ErrorAs(t, err, &late)
	assert.Equal(t, 3, late.Strikes)
	require.NotNil(t, late.BannedUntil)
	assert.Equal(t, e.clock.now.Add(domain.DefaultPolicy().BanDuration), *late.BannedUntil)
}

func TestExecute_BookPickupHasNoTolerance(t *testing.T) {
	e := newEnv(t)
	e.asBookLoan()
	e.clock.now = at(18, 45) // много позже начала окна

	resp, err := e.execute(t)
	require.NoError(t, err)

	assert.Equal(t, ResultCheckedIn, resp.Result)
	assert.Equal(t, domain.StateDelivered, resp.NewState)
	assert.Zero(t, e.users.strikes)
}

func TestExecute_RoomReturn(t *testing.T) {
	e := newEnv(t)
	e.store.rsv.State = domain.StateInUse
	e.clock.now = at(11, 30)

	resp, err := e.execute(t)
	require.NoError(t, err)

	assert.Equal(t, ResultCheckedOut, resp.Result)
	assert.Equal(t, domain.StateFinalized, resp.NewState)
	assert.False(t, resp.Overdue)
	assert.Nil(t, resp.Strikes)
	require.NotNil(t, resp.CheckedOutAt)
	assert.Equal(t, at(11, 30), *resp.CheckedOutAt)
}

func TestExecute_OverdueRoomReturn(t *testing.T) {
	e := newEnv(t)
	e.store.rsv.State = domain.StateInUse
	e.clock.now = at(12, 30) // окно закончилось в 12:00

	resp, err := e.execute(t)
	require.NoError(t, err)

	assert.True(t, resp.Overdue)
	require.NotNil(t, resp.Strikes)
	assert.Equal(t, 1, *resp.Strikes)
	assert.Equal(t, domain.StateFinalized, e.store.rsv.State)
	assert.Equal(t, 1, e.metrics.strikes)
}

func TestExecute_OverdueBookReturn(t *testing.T) {
	e := newEnv(t)
	e.asBookLoan()
	e.store.rsv.State = domain.StateDelivered
	e.clock.now = time.Date(2025, 3, 14, 9, 0, 0, 0, civiltime.Location) // окно до 12-го

	resp, err := e.execute(t)
	require.NoError(t, err)

	assert.Equal(t, domain.StateFinalized, resp.NewState)
	assert.True(t, resp.Overdue)
	require.NotNil(t, resp.Strikes)
	assert.Equal(t, 1, *resp.Strikes)
}

func TestExecute_AlreadyClosed(t *testing.T) {
	for _, state := range []domain.ReservationState{domain.StateFinalized, domain.StateNoShow, domain.StateCancelled} {
		t.Run(string(state), func(t *testing.T) {
			e := newEnv(t)
			e.store.rsv.State = state

			_, err := e.execute(t)
			require.ErrorIs(t, err, ErrAlreadyClosed)

			var closed *AlreadyClosedError
			require.ErrorAs(t, err, &closed)
			assert.Equal(t, state, closed.State)
		})
	}
}

func TestExecute_FullVisitSequence(t *testing.T) {
	// Один ключ, два прохода: вход, затем выход, затем уже закрыто
	e := newEnv(t)

	e.clock.now = at(10, 5)
	resp, err := e.execute(t)
	require.NoError(t, err)
	assert.Equal(t, ResultCheckedIn, resp.Result)

	e.clock.now = at(11, 45)
	resp, err = e.execute(t)
	require.NoError(t, err)
	assert.Equal(t, ResultCheckedOut, resp.Result)

	_, err = e.execute(t)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.Zero(t, e.users.strikes)
}
