package validate_checkpoint

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	processCheckpoint "github.com/m04kA/BNP-ReservationService/internal/usecase/process_checkpoint"
)

const (
	msgInvalidRequestBody   = "cuerpo de solicitud inválido"
	msgReservationNotFound  = "reserva no encontrada"
	msgReservationClosed    = "la reserva ya fue cerrada"
	msgToleranceExpiredBase = "tolerancia vencida: la reserva fue marcada como inasistencia"
)

type Handler struct {
	useCase ProcessCheckpointUseCase
	logger  Logger
}

func NewHandler(useCase ProcessCheckpointUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkpoint
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckpointRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Key == "" {
		h.logger.Warn("POST /checkpoint - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &processCheckpoint.Request{Key: req.Key})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("POST /checkpoint - %s: id=%d code=%s state=%s",
		result.Result, result.ReservationID, result.Code, result.NewState)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var early *processCheckpoint.EarlyError
	var late *processCheckpoint.LateNoShowError
	var closed *processCheckpoint.AlreadyClosedError

	switch {
	case errors.As(err, &early):
		handlers.RespondConflict(w, fmt.Sprintf("aún no puedes ingresar, vuelve en %d minutos",
			int(early.Wait.Round(time.Minute).Minutes())))

	case errors.As(err, &late):
		msg := fmt.Sprintf("%s (strikes: %d)", msgToleranceExpiredBase, late.Strikes)
		if late.BannedUntil != nil {
			msg = fmt.Sprintf("%s, usuario suspendido hasta %s", msg, late.BannedUntil.Format(domain.DateFormat))
		}
		h.logger.Warn("POST /checkpoint - No-show recorded, strikes=%d", late.Strikes)
		handlers.RespondConflict(w, msg)

	case errors.As(err, &closed):
		handlers.RespondConflict(w, fmt.Sprintf("%s (%s)", msgReservationClosed, closed.State))

	case errors.Is(err, processCheckpoint.ErrReservationNotFound):
		handlers.RespondNotFound(w, msgReservationNotFound)

	case errors.Is(err, processCheckpoint.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("POST /checkpoint - Failed to process checkpoint: %v", err)
		handlers.RespondInternalError(w)
	}
}
