package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	reservationstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
)

// Service чтение и отмена резерваций. Создание и checkpoint-ы живут
// в отдельных usecase-ах; здесь собраны операции личного кабинета
// и административные выборки.
type Service struct {
	reservations ReservationRepository
	txManager    TransactionManager
	policy       domain.Policy
	timeProvider TimeProvider
	log          Logger
}

// NewService создает сервис резерваций
func NewService(
	reservations ReservationRepository,
	txManager TransactionManager,
	policy domain.Policy,
	timeProvider TimeProvider,
	log Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		reservations: reservations,
		txManager:    txManager,
		policy:       policy,
		timeProvider: timeProvider,
		log:          log,
	}
}

// GetByID возвращает резервацию. Пользователь видит только свои,
// администратор — любые.
func (s *Service) GetByID(ctx context.Context, id int64, requesterDNI string, isAdmin bool) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	rsv, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationstore.ErrReservationNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
		}
		s.log.Error("Reservations.GetByID: id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !isAdmin && rsv.UserDNI != requesterDNI {
		return nil, fmt.Errorf("%w: reservation id %d", ErrAccessDenied, id)
	}

	return rsv, nil
}

// GetUserReservations возвращает резервации пользователя, новые первыми
func (s *Service) GetUserReservations(ctx context.Context, dni string, state *domain.ReservationState) ([]*domain.Reservation, error) {
	if dni == "" {
		return nil, fmt.Errorf("%w: user DNI is required", ErrInvalidInput)
	}
	if state != nil && !state.IsValid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, *state)
	}

	list, err := s.reservations.GetByUser(ctx, dni, state)
	if err != nil {
		s.log.Error("Reservations.GetUserReservations: dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return list, nil
}

// ListAdmin административная выборка резерваций
func (s *Service) ListAdmin(ctx context.Context, filter domain.AdminReservationsFilter) ([]*domain.Reservation, error) {
	if filter.State != nil && !filter.State.IsValid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, *filter.State)
	}

	list, err := s.reservations.ListAdmin(ctx, filter)
	if err != nil {
		s.log.Error("Reservations.ListAdmin: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return list, nil
}

// Cancel отменяет pending-резервацию. Пользователь обязан успеть до
// закрытия окна отмены; администратор может отменить в любой момент.
// Отмена освобождает ёмкость: слот зала или экземпляр книги снова
// доступны сразу после коммита.
func (s *Service) Cancel(ctx context.Context, id int64, requesterDNI string, isAdmin bool) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	var cancelled *domain.Reservation
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		rsv, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, reservationstore.ErrReservationNotFound) {
				return fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("%w: failed to load reservation: %v", ErrInternal, err)
		}

		if !isAdmin && rsv.UserDNI != requesterDNI {
			return fmt.Errorf("%w: reservation id %d", ErrAccessDenied, id)
		}

		next, ok := domain.NextState(rsv.State, domain.EventCancel, rsv.Resource.Kind)
		if !ok {
			return fmt.Errorf("%w: state %s", ErrNotCancellable, rsv.State)
		}

		if !isAdmin && now.After(rsv.StartsAt.Add(-s.policy.CancelWindow)) {
			return fmt.Errorf("%w: starts at %s", ErrCancelTooLate, rsv.StartsAt.Format(domain.DateTimeFormat))
		}

		if err := s.reservations.UpdateStateIf(ctx, rsv.ID, rsv.State, next, nil, nil); err != nil {
			if errors.Is(err, reservationstore.ErrStateConflict) {
				return fmt.Errorf("%w: state changed concurrently", ErrNotCancellable)
			}
			return fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
		}

		rsv.State = next
		cancelled = rsv
		return nil
	})
	if txErr != nil {
		return nil, s.mapTxError(txErr)
	}

	s.log.Info("Reservations.Cancel: cancelled id=%d code=%s by=%s admin=%t", cancelled.ID, cancelled.Code, requesterDNI, isAdmin)
	return cancelled, nil
}

func (s *Service) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrCancelTooLate),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.log.Error("Reservations: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
