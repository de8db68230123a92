package catalog_sites

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

const (
	msgInvalidRequestBody = "cuerpo de solicitud inválido"
	msgInvalidID          = "identificador inválido"
	msgInvalidInput       = "datos de solicitud inválidos"
	msgSiteNotFound       = "sede no encontrada"
	msgSiteHasInventory   = "la sede aún tiene inventario asignado"
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

// HandleCreate POST /api/v1/admin/sites
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	site, err := h.service.CreateSite(r.Context(), &catalog.CreateSiteInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.respondError(w, "POST /admin/sites", err)
		return
	}

	h.logger.Info("POST /admin/sites - Created site id=%d code=%s", site.ID, site.Code)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(site))
}

// HandleList GET /api/v1/sites (публичный список активных сайтов)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Полный список (включая деактивированные) только для админской выборки
	onlyActive := r.URL.Query().Get("all") != "true"

	sites, err := h.service.ListSites(r.Context(), onlyActive)
	if err != nil {
		h.respondError(w, "GET /sites", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(sites))
}

// HandleGet GET /api/v1/sites/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	site, err := h.service.GetSite(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /sites/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(site))
}

// HandleUpdate PATCH /api/v1/admin/sites/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateSiteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	site, err := h.service.UpdateSite(r.Context(), id, req.ToUpdate())
	if err != nil {
		h.respondError(w, "PATCH /admin/sites/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(site))
}

// HandleDelete DELETE /api/v1/admin/sites/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteSite(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/sites/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/sites/{id} - Deleted site id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrSiteNotFound):
		handlers.RespondNotFound(w, msgSiteNotFound)
	case errors.Is(err, catalog.ErrSiteHasInventory):
		handlers.RespondConflict(w, msgSiteHasInventory)
	case errors.Is(err, catalog.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
