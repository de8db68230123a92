package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	createReservation "github.com/m04kA/BNP-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// CreateReservationRequest HTTP request model.
// Для залов обязательны date + startTime + endTime, для книг
// startDate + endDate (включительно).
type CreateReservationRequest struct {
	Kind       string `json:"kind"` // "room" | "book"
	ResourceID int64  `json:"resourceId"`

	Date      string `json:"date,omitempty"`      // "2026-09-01"
	StartTime string `json:"startTime,omitempty"` // "10:00"
	EndTime   string `json:"endTime,omitempty"`   // "12:00"

	StartDate string `json:"startDate,omitempty"` // "2026-09-01"
	EndDate   string `json:"endDate,omitempty"`   // "2026-09-05"

	Reason    *string `json:"reason,omitempty"`
	PartySize *int    `json:"partySize,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Token         string `json:"token"`
	Kind          string `json:"kind"`
	ResourceID    int64  `json:"resourceId"`
	ReferenceDate string `json:"referenceDate"`
	StartsAt      string `json:"startsAt"`
	EndsAt        string `json:"endsAt"`
	State         string `json:"state"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// DNI берётся из токена доступа, а не из тела.
func (r *CreateReservationRequest) ToUseCaseRequest(userDNI string) (*createReservation.Request, error) {
	kind := domain.ResourceKind(r.Kind)

	switch kind {
	case domain.KindRoom:
		date, err := time.ParseInLocation(domain.DateFormat, r.Date, civiltime.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		start, err := parseTimeOfDay(date, r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		end, err := parseTimeOfDay(date, r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}

		return &createReservation.Request{
			UserDNI:       userDNI,
			Kind:          kind,
			ResourceID:    r.ResourceID,
			ReferenceDate: date,
			StartsAt:      start,
			EndsAt:        end,
			Reason:        r.Reason,
			PartySize:     r.PartySize,
		}, nil

	case domain.KindBook:
		startDate, err := time.ParseInLocation(domain.DateFormat, r.StartDate, civiltime.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		endDate, err := time.ParseInLocation(domain.DateFormat, r.EndDate, civiltime.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}

		return &createReservation.Request{
			UserDNI:       userDNI,
			Kind:          kind,
			ResourceID:    r.ResourceID,
			ReferenceDate: startDate,
			StartsAt:      startDate,
			// Займ действует до конца последнего дня
			EndsAt: endDate.Add(24*time.Hour - time.Second),
			Reason: r.Reason,
		}, nil

	default:
		return nil, fmt.Errorf("unknown kind %q", r.Kind)
	}
}

func parseTimeOfDay(date time.Time, value string) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, civiltime.Location), nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:            resp.ID,
		Code:          resp.Code,
		Token:         resp.Token,
		Kind:          string(resp.Kind),
		ResourceID:    resp.ResourceID,
		ReferenceDate: resp.ReferenceDate.Format(domain.DateFormat),
		StartsAt:      resp.StartsAt.Format(domain.DateTimeFormat),
		EndsAt:        resp.EndsAt.Format(domain.DateTimeFormat),
		State:         string(resp.State),
		CreatedAt:     resp.CreatedAt.Format(domain.DateTimeFormat),
	}
}
