package create_reservation

import (
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// Request входные данные операции создания резервации.
// Все временные поля трактуются как наивное гражданское время.
type Request struct {
	UserDNI       string
	Kind          domain.ResourceKind
	ResourceID    int64
	ReferenceDate time.Time
	StartsAt      time.Time
	EndsAt        time.Time
	Reason        *string
	PartySize     *int
}

// Response результат успешного создания резервации
type Response struct {
	ID            int64
	Code          string
	Token         string
	Kind          domain.ResourceKind
	ResourceID    int64
	ReferenceDate time.Time
	StartsAt      time.Time
	EndsAt        time.Time
	State         domain.ReservationState
	CreatedAt     time.Time
}

func buildResponse(rsv *domain.Reservation) *Response {
	return &Response{
		ID:            rsv.ID,
		Code:          rsv.Code,
		Token:         rsv.Token,
		Kind:          rsv.Resource.Kind,
		ResourceID:    rsv.Resource.ID,
		ReferenceDate: rsv.ReferenceDate,
		StartsAt:      rsv.StartsAt,
		EndsAt:        rsv.EndsAt,
		State:         rsv.State,
		CreatedAt:     rsv.CreatedAt,
	}
}
