package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// validateRequest проверяет структурную корректность запроса до обращения
// к хранилищу. Бизнес-ограничения (лимиты, занятость) проверяются в
// транзакции.
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.UserDNI == "" {
		return fmt.Errorf("%w: user DNI is required", ErrInvalidInput)
	}
	if !req.Kind.IsValid() {
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, req.Kind)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource id must be positive", ErrInvalidInput)
	}
	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: starts_at is required", ErrInvalidInput)
	}
	if req.EndsAt.IsZero() {
		return fmt.Errorf("%w: ends_at is required", ErrInvalidInput)
	}
	if req.EndsAt.Before(req.StartsAt) {
		return fmt.Errorf("%w: ends_at is before starts_at", ErrInvalidInput)
	}
	if req.PartySize != nil && *req.PartySize <= 0 {
		return fmt.Errorf("%w: party size must be positive", ErrInvalidInput)
	}
	return nil
}

// normalizeRequest приводит все временные поля к единому гражданскому
// представлению. Пустая reference date выводится из даты начала.
func normalizeRequest(req *Request) {
	req.StartsAt = civiltime.Normalize(req.StartsAt)
	req.EndsAt = civiltime.Normalize(req.EndsAt)
	if req.ReferenceDate.IsZero() {
		req.ReferenceDate = civiltime.Date(req.StartsAt)
	} else {
		req.ReferenceDate = civiltime.Date(civiltime.Normalize(req.ReferenceDate))
	}
}

// slotTaken проверяет, занят ли точный момент начала слота
func slotTaken(occupied []time.Time, startsAt time.Time) bool {
	for _, ts := range occupied {
		if ts.Equal(startsAt) {
			return true
		}
	}
	return false
}

// firstFullDay возвращает первый день диапазона, на котором проектируемая
// загрузка (существующие активные займы + новый) превысила бы сток.
// Второе значение false, когда все дни укладываются в сток.
func firstFullDay(from, to time.Time, existing []*domain.Reservation, stockTotal int) (time.Time, bool) {
	for _, day := range civiltime.EachDay(from, to) {
		count := 0
		for _, rsv := range existing {
			if !rsv.IsActive() {
				continue
			}
			if !day.Before(civiltime.Date(rsv.StartsAt)) && !day.After(civiltime.Date(rsv.EndsAt)) {
				count++
			}
		}
		if count+1 > stockTotal {
			return day, true
		}
	}
	return time.Time{}, false
}
