package validate_checkpoint

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	processCheckpoint "github.com/m04kA/BNP-ReservationService/internal/usecase/process_checkpoint"
)

// CheckpointRequest HTTP request model.
// Key — QR-токен либо человекочитаемый код резервации.
type CheckpointRequest struct {
	Key string `json:"key"`
}

// CheckpointResponse HTTP response model
type CheckpointResponse struct {
	ReservationID int64  `json:"reservationId"`
	Code          string `json:"code"`
	Kind          string `json:"kind"`
	UserDNI       string `json:"userDni"`
	Result        string `json:"result"`
	State         string `json:"state"`
	CheckedInAt   string `json:"checkedInAt,omitempty"`
	CheckedOutAt  string `json:"checkedOutAt,omitempty"`
	Overdue       bool   `json:"overdue,omitempty"`
	Strikes       *int   `json:"strikes,omitempty"`
	BannedUntil   string `json:"bannedUntil,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *processCheckpoint.Response) *CheckpointResponse {
	out := &CheckpointResponse{
		ReservationID: resp.ReservationID,
		Code:          resp.Code,
		Kind:          string(resp.Kind),
		UserDNI:       resp.UserDNI,
		Result:        resp.Result,
		State:         string(resp.NewState),
		Overdue:       resp.Overdue,
		Strikes:       resp.Strikes,
	}
	if resp.CheckedInAt != nil {
		out.CheckedInAt = resp.CheckedInAt.Format(domain.DateTimeFormat)
	}
	if resp.CheckedOutAt != nil {
		out.CheckedOutAt = resp.CheckedOutAt.Format(domain.DateTimeFormat)
	}
	if resp.BannedUntil != nil {
		out.BannedUntil = resp.BannedUntil.Format(domain.DateTimeFormat)
	}
	return out
}
