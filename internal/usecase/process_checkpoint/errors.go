package process_checkpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда ни токен, ни код не найдены
	ErrReservationNotFound = errors.New("process_checkpoint: reservation not found")

	// ErrEarly возвращается, когда check-in ещё не открыт
	ErrEarly = errors.New("process_checkpoint: check-in not open yet")

	// ErrLateNoShow возвращается, когда время толерантности зала истекло:
	// резервация уже переведена в no_show и strike применён
	ErrLateNoShow = errors.New("process_checkpoint: tolerance expired, marked as no-show")

	// ErrAlreadyClosed возвращается для резерваций в терминальном состоянии
	ErrAlreadyClosed = errors.New("process_checkpoint: reservation already closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("process_checkpoint: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("process_checkpoint: internal error")
)

// EarlyError несёт момент открытия check-in и остаток ожидания.
// errors.Is(err, ErrEarly) продолжает работать.
type EarlyError struct {
	OpensAt time.Time
	Wait    time.Duration
}

func (e *EarlyError) Error() string {
	return fmt.Sprintf("process_checkpoint: check-in opens at %s (%s remaining)",
		e.OpensAt.Format(domain.DateTimeFormat), e.Wait.Round(time.Minute))
}

func (e *EarlyError) Is(target error) bool {
	return target == ErrEarly
}

// LateNoShowError несёт результат применённого strike. Переход в no_show
// к моменту возврата ошибки уже зафиксирован.
// errors.Is(err, ErrLateNoShow) продолжает работать.
type LateNoShowError struct {
	Strikes     int
	BannedUntil *time.Time
}

func (e *LateNoShowError) Error() string {
	if e.BannedUntil != nil {
		return fmt.Sprintf("process_checkpoint: tolerance expired, no-show recorded, strikes=%d, banned until %s",
			e.Strikes, e.BannedUntil.Format(domain.DateTimeFormat))
	}
	return fmt.Sprintf("process_checkpoint: tolerance expired, no-show recorded, strikes=%d", e.Strikes)
}

func (e *LateNoShowError) Is(target error) bool {
	return target == ErrLateNoShow
}

// AlreadyClosedError несёт терминальное состояние резервации.
// errors.Is(err, ErrAlreadyClosed) продолжает работать.
type AlreadyClosedError struct {
	State domain.ReservationState
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("process_checkpoint: reservation already closed, state=%s", e.State)
}

func (e *AlreadyClosedError) Is(target error) bool {
	return target == ErrAlreadyClosed
}
