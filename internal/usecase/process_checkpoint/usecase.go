package process_checkpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	reservationstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
)

// UseCase единая точка прохода: check-in и check-out резерваций.
// Одна операция обслуживает обе стороны визита — направление перехода
// выбирает машина состояний по текущему состоянию резервации.
type UseCase struct {
	reservations ReservationRepository
	users        UserRepository
	txManager    TransactionManager
	policy       domain.Policy
	timeProvider TimeProvider
	metrics      Metrics
	log          Logger
}

// NewUseCase создает экземпляр usecase обработки checkpoint-ов
func NewUseCase(
	reservations ReservationRepository,
	users UserRepository,
	txManager TransactionManager,
	policy domain.Policy,
	timeProvider TimeProvider,
	metrics Metrics,
	log Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		reservations: reservations,
		users:        users,
		txManager:    txManager,
		policy:       policy,
		timeProvider: timeProvider,
		metrics:      metrics,
		log:          log,
	}
}

// txOutcome результат транзакции checkpoint-а. Ветка no-show фиксирует
// переход и strike в БД, но для вызывающего кода является ошибкой —
// поэтому исход переносится через это значение, а не через возврат fn.
type txOutcome struct {
	response *Response
	early    *EarlyError
	late     *LateNoShowError
	closed   *AlreadyClosedError
}

// Execute обрабатывает checkpoint по токену или коду.
// PENDING: ранний визит отклоняется, просроченный визит в зал фиксирует
// no_show + strike, своевременный переводит в in_use/delivered.
// IN_USE/DELIVERED: переводит в finalized; возврат позже конца окна
// дополнительно фиксирует strike.
func (u *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidInput)
	}

	now := u.timeProvider.Now()

	var outcome txOutcome
	txErr := u.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		outcome = txOutcome{}

		rsv, err := u.reservations.GetByTokenOrCode(ctx, req.Key)
		if err != nil {
			if errors.Is(err, reservationstore.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to load reservation: %v", ErrInternal, err)
		}

		if rsv.State.IsTerminal() {
			outcome.closed = &AlreadyClosedError{State: rsv.State}
			return nil
		}

		switch rsv.State {
		case domain.StatePending:
			return u.handleArrival(ctx, rsv, now, &outcome)
		case domain.StateInUse, domain.StateDelivered:
			return u.handleReturn(ctx, rsv, now, &outcome)
		default:
			return fmt.Errorf("%w: unexpected state %s for reservation id=%d", ErrInternal, rsv.State, rsv.ID)
		}
	})
	if txErr != nil {
		return nil, u.mapTxError(txErr)
	}

	return u.resolveOutcome(&outcome)
}

// handleArrival обрабатывает визит по PENDING-резервации
func (u *UseCase) handleArrival(ctx context.Context, rsv *domain.Reservation, now time.Time, outcome *txOutcome) error {
	opensAt := rsv.StartsAt.Add(-u.policy.GraceBefore)
	if now.Before(opensAt) {
		outcome.early = &EarlyError{OpensAt: opensAt, Wait: opensAt.Sub(now)}
		return nil
	}

	// Толерантность действует только для залов: книгу можно забрать
	// в любой момент после открытия окна
	if rsv.Resource.Kind == domain.KindRoom && now.After(rsv.StartsAt.Add(u.policy.LateTolerance)) {
		return u.recordNoShow(ctx, rsv, now, outcome)
	}

	next, ok := domain.NextState(rsv.State, domain.EventCheckIn, rsv.Resource.Kind)
	if !ok {
		return fmt.Errorf("%w: check_in not allowed from %s for kind=%s", ErrInternal, rsv.State, rsv.Resource.Kind)
	}

	if err := u.reservations.UpdateStateIf(ctx, rsv.ID, rsv.State, next, &now, nil); err != nil {
		return fmt.Errorf("%w: failed to apply check-in: %v", ErrInternal, err)
	}

	outcome.response = &Response{
		ReservationID: rsv.ID,
		Code:          rsv.Code,
		Kind:          rsv.Resource.Kind,
		UserDNI:       rsv.UserDNI,
		Result:        ResultCheckedIn,
		NewState:      next,
		CheckedInAt:   &now,
	}
	return nil
}

// recordNoShow фиксирует неявку: переход pending -> no_show + strike.
// Оба изменения коммитятся одной транзакцией.
func (u *UseCase) recordNoShow(ctx context.Context, rsv *domain.Reservation, now time.Time, outcome *txOutcome) error {
	next, ok := domain.NextState(rsv.State, domain.EventNoShow, rsv.Resource.Kind)
	if !ok {
		return fmt.Errorf("%w: no_show not allowed from %s", ErrInternal, rsv.State)
	}

	if err := u.reservations.UpdateStateIf(ctx, rsv.ID, rsv.State, next, nil, nil); err != nil {
		return fmt.Errorf("%w: failed to mark no-show: %v", ErrInternal, err)
	}

	user, err := u.applyStrike(ctx, rsv.UserDNI, now)
	if err != nil {
		return err
	}

	outcome.late = &LateNoShowError{Strikes: user.Strikes, BannedUntil: user.BannedUntil}
	return nil
}

// handleReturn обрабатывает завершение визита/займа
func (u *UseCase) handleReturn(ctx context.Context, rsv *domain.Reservation, now time.Time, outcome *txOutcome) error {
	next, ok := domain.NextState(rsv.State, domain.EventCheckOut, rsv.Resource.Kind)
	if !ok {
		return fmt.Errorf("%w: check_out not allowed from %s for kind=%s", ErrInternal, rsv.State, rsv.Resource.Kind)
	}

	if err := u.reservations.UpdateStateIf(ctx, rsv.ID, rsv.State, next, nil, &now); err != nil {
		return fmt.Errorf("%w: failed to apply check-out: %v", ErrInternal, err)
	}

	resp := &Response{
		ReservationID: rsv.ID,
		Code:          rsv.Code,
		Kind:          rsv.Resource.Kind,
		UserDNI:       rsv.UserDNI,
		Result:        ResultCheckedOut,
		NewState:      next,
		CheckedInAt:   rsv.CheckedInAt,
		CheckedOutAt:  &now,
	}

	// Просроченный возврат принимается, но стоит strike
	if now.After(rsv.EndsAt) {
		user, err := u.applyStrike(ctx, rsv.UserDNI, now)
		if err != nil {
			return err
		}
		resp.Overdue = true
		resp.Strikes = &user.Strikes
		resp.BannedUntil = user.BannedUntil
	}

	outcome.response = resp
	return nil
}

// applyStrike блокирует строку пользователя и применяет strike.
// Блокировка обязательна: без неё конкурирующие checkpoint-ы теряют
// инкременты счётчика.
func (u *UseCase) applyStrike(ctx context.Context, dni string, now time.Time) (*domain.User, error) {
	if _, err := u.users.GetByDNIForUpdate(ctx, dni); err != nil {
		return nil, fmt.Errorf("%w: failed to lock user dni=%s: %v", ErrInternal, dni, err)
	}

	user, err := u.users.ApplyStrike(ctx, dni, now, u.policy.StrikeLimit, u.policy.BanDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to apply strike dni=%s: %v", ErrInternal, dni, err)
	}

	u.log.Warn("ProcessCheckpoint: strike applied dni=%s strikes=%d banned_until=%v", dni, user.Strikes, user.BannedUntil)
	if u.metrics != nil {
		u.metrics.IncStrikeApplied()
	}
	return user, nil
}

// resolveOutcome превращает исход зафиксированной транзакции в ответ
// или ошибку вызывающему коду
func (u *UseCase) resolveOutcome(outcome *txOutcome) (*Response, error) {
	switch {
	case outcome.closed != nil:
		return nil, outcome.closed
	case outcome.early != nil:
		return nil, outcome.early
	case outcome.late != nil:
		if u.metrics != nil {
			u.metrics.IncCheckpoint(ResultNoShow)
		}
		return nil, outcome.late
	case outcome.response != nil:
		u.log.Info("ProcessCheckpoint: %s id=%d code=%s state=%s",
			outcome.response.Result, outcome.response.ReservationID, outcome.response.Code, outcome.response.NewState)
		if u.metrics != nil {
			u.metrics.IncCheckpoint(outcome.response.Result)
		}
		return outcome.response, nil
	default:
		return nil, fmt.Errorf("%w: transaction produced no outcome", ErrInternal)
	}
}

// mapTxError переводит ошибки транзакции в ошибки usecase
func (u *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrInternal):
		return err
	default:
		u.log.Error("ProcessCheckpoint: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
