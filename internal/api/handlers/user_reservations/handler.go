package user_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/api/middleware"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/reservations"
)

const (
	msgInvalidID           = "identificador inválido"
	msgInvalidState        = "estado de reserva inválido"
	msgReservationNotFound = "reserva no encontrada"
	msgAccessDenied        = "no tienes acceso a esta reserva"
	msgNotCancellable      = "la reserva ya no puede cancelarse"
	msgCancelTooLate       = "la cancelación debe hacerse con mayor anticipación"
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

// HandleGet GET /api/v1/reservations/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	rsv, err := h.service.GetByID(r.Context(), id, identity.DNI, identity.IsAdmin())
	if err != nil {
		h.respondError(w, "GET /reservations/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(rsv))
}

// HandleList GET /api/v1/users/me/reservations?state=pending
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var state *domain.ReservationState
	if raw := r.URL.Query().Get("state"); raw != "" {
		s := domain.ReservationState(raw)
		if !s.IsValid() {
			handlers.RespondBadRequest(w, msgInvalidState)
			return
		}
		state = &s
	}

	list, err := h.service.GetUserReservations(r.Context(), identity.DNI, state)
	if err != nil {
		h.respondError(w, "GET /users/me/reservations", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}

// HandleCancel DELETE /api/v1/reservations/{id}
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	rsv, err := h.service.Cancel(r.Context(), id, identity.DNI, identity.IsAdmin())
	if err != nil {
		h.respondError(w, "DELETE /reservations/{id}", err)
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Cancelled: id=%d dni=%s", rsv.ID, identity.DNI)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(rsv))
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, reservations.ErrReservationNotFound):
		handlers.RespondNotFound(w, msgReservationNotFound)

	case errors.Is(err, reservations.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, reservations.ErrNotCancellable):
		handlers.RespondConflict(w, msgNotCancellable)

	case errors.Is(err, reservations.ErrCancelTooLate):
		handlers.RespondConflict(w, msgCancelTooLate)

	case errors.Is(err, reservations.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidID)

	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
