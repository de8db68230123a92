package admin_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/api/handlers/user_reservations"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/reservations"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

const (
	msgInvalidState = "estado de reserva inválido"
	msgInvalidDate  = "fecha inválida, se espera YYYY-MM-DD"
	msgInvalidLimit = "límite inválido"
)

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/reservations?state=&date=&limit=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var filter domain.AdminReservationsFilter

	query := r.URL.Query()
	if raw := query.Get("state"); raw != "" {
		state := domain.ReservationState(raw)
		if !state.IsValid() {
			handlers.RespondBadRequest(w, msgInvalidState)
			return
		}
		filter.State = &state
	}
	if raw := query.Get("date"); raw != "" {
		date, err := time.ParseInLocation(domain.DateFormat, raw, civiltime.Location)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.ReferenceDate = &date
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		filter.Limit = limit
	}

	list, err := h.service.ListAdmin(r.Context(), filter)
	if err != nil {
		if errors.Is(err, reservations.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidState)
			return
		}
		h.logger.Error("GET /admin/reservations - error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user_reservations.FromDomainList(list))
}
