package create_reservation

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/api/middleware"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	createReservation "github.com/m04kA/BNP-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "cuerpo de solicitud inválido"
	msgInvalidDates       = "fechas u horas inválidas"
	msgUserNotFound       = "usuario no encontrado"
	msgRoomNotFound       = "sala no encontrada"
	msgRoomInactive       = "la sala no está disponible"
	msgBookNotFound       = "libro no encontrado"
	msgSlotTaken          = "el horario seleccionado ya está reservado"
	msgDailyRoomLimit     = "ya tienes una reserva de sala para ese día"
	msgLoanTooLong        = "el préstamo excede el máximo de días permitido"
	msgLoanLimit          = "ya tienes el máximo de préstamos activos"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "se requiere token de acceso")
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(identity.DNI)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, req, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d code=%s dni=%s",
		result.ID, result.Code, identity.DNI)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req CreateReservationRequest, err error) {
	var banned *createReservation.BannedError
	var noStock *createReservation.NoStockError

	switch {
	case errors.As(err, &banned):
		h.logger.Warn("POST /reservations - User banned until %v", banned.Until)
		handlers.RespondForbidden(w, fmt.Sprintf("usuario suspendido hasta %s (quedan %s)",
			banned.Until.Format(domain.DateFormat), formatBanRemaining(banned.Remaining)))

	case errors.As(err, &noStock):
		h.logger.Warn("POST /reservations - No stock: resource_id=%d day=%s", req.ResourceID, noStock.Date.Format(domain.DateFormat))
		handlers.RespondConflict(w, fmt.Sprintf("sin ejemplares disponibles para el %s", noStock.Date.Format(domain.DateFormat)))

	case errors.Is(err, createReservation.ErrSlotTaken):
		h.logger.Warn("POST /reservations - Slot taken: resource_id=%d", req.ResourceID)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, createReservation.ErrDailyRoomLimit):
		handlers.RespondConflict(w, msgDailyRoomLimit)

	case errors.Is(err, createReservation.ErrLoanLimit):
		handlers.RespondConflict(w, msgLoanLimit)

	case errors.Is(err, createReservation.ErrLoanTooLong):
		handlers.RespondBadRequest(w, msgLoanTooLong)

	case errors.Is(err, createReservation.ErrRoomInactive):
		handlers.RespondBadRequest(w, msgRoomInactive)

	case errors.Is(err, createReservation.ErrRoomNotFound):
		handlers.RespondNotFound(w, msgRoomNotFound)

	case errors.Is(err, createReservation.ErrBookNotFound):
		handlers.RespondNotFound(w, msgBookNotFound)

	case errors.Is(err, createReservation.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)

	case errors.Is(err, createReservation.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidDates)

	default:
		h.logger.Error("POST /reservations - Failed to create reservation: resource_id=%d, error=%v", req.ResourceID, err)
		handlers.RespondInternalError(w)
	}
}

// formatBanRemaining остаток бана для сообщения пользователю: "12 días" / "3 horas"
func formatBanRemaining(d time.Duration) string {
	if days := int(d.Hours()) / 24; days > 0 {
		if days == 1 {
			return "1 día"
		}
		return fmt.Sprintf("%d días", days)
	}
	hours := int(d.Hours())
	if hours <= 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", hours)
}
