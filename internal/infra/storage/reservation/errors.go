package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotTaken возвращается, когда уникальный индекс активного слота
	// отклонил вставку: кто-то успел занять этот же стартовый момент
	ErrSlotTaken = errors.New("reservation.repository: slot already taken")

	// ErrCodeCollision возвращается при коллизии человекочитаемого кода
	ErrCodeCollision = errors.New("reservation.repository: reservation code collision")

	// ErrStateConflict возвращается, когда условное обновление состояния
	// не затронуло ни одной строки: состояние уже изменилось
	ErrStateConflict = errors.New("reservation.repository: state already changed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
