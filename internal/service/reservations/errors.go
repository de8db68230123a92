package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("service/reservations: reservation not found")

	// ErrAccessDenied возвращается при попытке доступа к чужой резервации
	ErrAccessDenied = errors.New("service/reservations: access denied")

	// ErrNotCancellable возвращается, когда резервация уже не в pending
	ErrNotCancellable = errors.New("service/reservations: reservation is not cancellable")

	// ErrCancelTooLate возвращается, когда окно отмены уже закрыто
	ErrCancelTooLate = errors.New("service/reservations: cancel window is closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service/reservations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service/reservations: internal error")
)
