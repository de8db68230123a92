package catalog_rooms

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

const (
	msgInvalidRequestBody = "cuerpo de solicitud inválido"
	msgInvalidID          = "identificador inválido"
	msgInvalidInput       = "datos de solicitud inválidos"
	msgSiteNotFound       = "sede no encontrada"
	msgRoomNotFound       = "sala no encontrada"
	msgHasReservations    = "la sala tiene reservas registradas, solo puede desactivarse"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/admin/rooms
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), &catalog.CreateRoomInput{
		Name:     req.Name,
		RoomType: req.RoomType,
		SiteID:   req.SiteID,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.respondError(w, "POST /admin/rooms", err)
		return
	}

	h.logger.Info("POST /admin/rooms - Created room id=%d", room.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(room))
}

// HandleList GET /api/v1/rooms?roomType=&siteId=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := catalogstore.RoomsFilter{OnlyActive: query.Get("all") != "true"}
	if raw := query.Get("roomType"); raw != "" {
		filter.RoomType = &raw
	}
	if raw := query.Get("siteId"); raw != "" {
		siteID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidID)
			return
		}
		filter.SiteID = &siteID
	}

	rooms, err := h.service.ListRooms(r.Context(), filter)
	if err != nil {
		h.respondError(w, "GET /rooms", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(rooms))
}

// HandleGet GET /api/v1/rooms/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	room, err := h.service.GetRoom(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /rooms/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(room))
}

// HandleUpdate PATCH /api/v1/admin/rooms/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), id, req.ToUpdate())
	if err != nil {
		h.respondError(w, "PATCH /admin/rooms/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(room))
}

// HandleDelete DELETE /api/v1/admin/rooms/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteRoom(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/rooms/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/rooms/{id} - Deleted room id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrRoomNotFound):
		handlers.RespondNotFound(w, msgRoomNotFound)
	case errors.Is(err, catalog.ErrSiteNotFound):
		handlers.RespondNotFound(w, msgSiteNotFound)
	case errors.Is(err, catalog.ErrHasReservations):
		handlers.RespondConflict(w, msgHasReservations)
	case errors.Is(err, catalog.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
