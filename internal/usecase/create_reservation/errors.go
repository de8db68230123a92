package create_reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_reservation: user not found")

	// ErrBanned возвращается, когда у пользователя активный бан
	ErrBanned = errors.New("create_reservation: user is banned")

	// ErrRoomNotFound возвращается, когда зал не найден
	ErrRoomNotFound = errors.New("create_reservation: room not found")

	// ErrRoomInactive возвращается, когда зал выведен из эксплуатации
	ErrRoomInactive = errors.New("create_reservation: room is not active")

	// ErrBookNotFound возвращается, когда книга не найдена
	ErrBookNotFound = errors.New("create_reservation: book not found")

	// ErrSlotTaken возвращается, когда стартовый момент слота уже занят
	ErrSlotTaken = errors.New("create_reservation: slot already reserved")

	// ErrDailyRoomLimit возвращается при превышении дневного лимита залов
	ErrDailyRoomLimit = errors.New("create_reservation: daily room limit reached")

	// ErrLoanTooLong возвращается, когда запрошенный срок займа превышает лимит
	ErrLoanTooLong = errors.New("create_reservation: loan span exceeds limit")

	// ErrNoStock возвращается, когда на один из дней не осталось экземпляров
	ErrNoStock = errors.New("create_reservation: no stock available")

	// ErrLoanLimit возвращается при превышении лимита одновременных займов
	ErrLoanLimit = errors.New("create_reservation: active loan limit reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// BannedError несёт остаток бана для сообщения пользователю.
// errors.Is(err, ErrBanned) продолжает работать.
type BannedError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("create_reservation: user is banned until %s (%s remaining)",
		e.Until.Format(domain.DateTimeFormat), formatRemaining(e.Remaining))
}

func (e *BannedError) Is(target error) bool {
	return target == ErrBanned
}

// NoStockError несёт первую дату без свободных экземпляров.
// errors.Is(err, ErrNoStock) продолжает работать.
type NoStockError struct {
	Date time.Time
}

func (e *NoStockError) Error() string {
	return fmt.Sprintf("create_reservation: no stock for day %s", e.Date.Format(domain.DateFormat))
}

func (e *NoStockError) Is(target error) bool {
	return target == ErrNoStock
}

// formatRemaining форматирует остаток бана: "12 días, 3h 04m"
func formatRemaining(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	text := fmt.Sprintf("%dh %02dm", hours, minutes)
	if days > 0 {
		text = fmt.Sprintf("%d días, %s", days, text)
	}
	return text
}
