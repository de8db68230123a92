package process_checkpoint

import (
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// Результаты checkpoint-а (для ответа API и метрик)
const (
	ResultCheckedIn  = "checked_in"
	ResultCheckedOut = "checked_out"
	ResultNoShow     = "no_show"
)

// Request входные данные операции checkpoint.
// Key — check-in токен либо человекочитаемый код резервации.
type Request struct {
	Key string
}

// Response результат успешного checkpoint-а
type Response struct {
	ReservationID int64
	Code          string
	Kind          domain.ResourceKind
	UserDNI       string

	Result   string
	NewState domain.ReservationState

	CheckedInAt  *time.Time
	CheckedOutAt *time.Time

	// Overdue выставляется при check-out позже конца окна: возврат принят,
	// но пользователь получил strike
	Overdue     bool
	Strikes     *int
	BannedUntil *time.Time
}
