package catalog_books

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
	msgBookNotFound       = "libro no encontrado"
	msgHasReservations    = "el libro tiene reservas registradas, solo puede desactivarse"
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

// HandleCreate POST /api/v1/admin/books
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	book, err := h.service.CreateBook(r.Context(), &catalog.CreateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		ISBN:       req.ISBN,
		Category:   req.Category,
		SiteID:     req.SiteID,
		StockTotal: req.StockTotal,
	})
	if err != nil {
		h.respondError(w, "POST /admin/books", err)
		return
	}

	h.logger.Info("POST /admin/books - Created book id=%d", book.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(book))
}

// HandleList GET /api/v1/books?q=&siteId=&category=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := catalogstore.BooksFilter{OnlyActive: query.Get("all") != "true"}
	if raw := query.Get("q"); raw != "" {
		filter.Query = &raw
	}
	if raw := query.Get("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := query.Get("siteId"); raw != "" {
		siteID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidID)
			return
		}
		filter.SiteID = &siteID
	}

	books, err := h.service.ListBooks(r.Context(), filter)
	if err != nil {
		h.respondError(w, "GET /books", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(books))
}

// HandleGet GET /api/v1/books/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /books/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(book))
}

// HandleUpdate PATCH /api/v1/admin/books/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateBookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, req.ToUpdate())
	if err != nil {
		h.respondError(w, "PATCH /admin/books/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(book))
}

// HandleDelete DELETE /api/v1/admin/books/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/books/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/books/{id} - Deleted book id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		handlers.RespondNotFound(w, msgBookNotFound)
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
