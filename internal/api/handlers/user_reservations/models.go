package user_reservations

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// ReservationResponse HTTP-представление резервации в личном кабинете.
// Токен не отдается в списках, только при создании.
type ReservationResponse struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Kind          string  `json:"kind"`
	ResourceID    int64   `json:"resourceId"`
	ReferenceDate string  `json:"referenceDate"`
	StartsAt      string  `json:"startsAt"`
	EndsAt        string  `json:"endsAt"`
	Reason        *string `json:"reason,omitempty"`
	PartySize     *int    `json:"partySize,omitempty"`
	State         string  `json:"state"`
	CheckedInAt   string  `json:"checkedInAt,omitempty"`
	CheckedOutAt  string  `json:"checkedOutAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// FromDomain конвертирует доменную резервацию в HTTP response
func FromDomain(rsv *domain.Reservation) *ReservationResponse {
	out := &ReservationResponse{
		ID:            rsv.ID,
		Code:          rsv.Code,
		Kind:          string(rsv.Resource.Kind),
		ResourceID:    rsv.Resource.ID,
		ReferenceDate: rsv.ReferenceDate.Format(domain.DateFormat),
		StartsAt:      rsv.StartsAt.Format(domain.DateTimeFormat),
		EndsAt:        rsv.EndsAt.Format(domain.DateTimeFormat),
		Reason:        rsv.Reason,
		PartySize:     rsv.PartySize,
		State:         string(rsv.State),
		CreatedAt:     rsv.CreatedAt.Format(domain.DateTimeFormat),
	}
	if rsv.CheckedInAt != nil {
		out.CheckedInAt = rsv.CheckedInAt.Format(domain.DateTimeFormat)
	}
	if rsv.CheckedOutAt != nil {
		out.CheckedOutAt = rsv.CheckedOutAt.Format(domain.DateTimeFormat)
	}
	return out
}

// FromDomainList конвертирует список резерваций
func FromDomainList(list []*domain.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(list))
	for i, rsv := range list {
		out[i] = FromDomain(rsv)
	}
	return out
}
