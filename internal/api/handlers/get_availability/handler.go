package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/BNP-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

const (
	msgInvalidID    = "identificador inválido"
	msgInvalidDate  = "fecha inválida, se espera YYYY-MM-DD"
	msgInvalidMonth = "mes inválido, se espera YYYY-MM"
	msgRoomNotFound = "sala no encontrada"
	msgBookNotFound = "libro no encontrado"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleRoomDay GET /api/v1/availability/rooms/{id}?date=YYYY-MM-DD
func (h *Handler) HandleRoomDay(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	date, err := time.ParseInLocation(domain.DateFormat, r.URL.Query().Get("date"), civiltime.Location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.RoomDay(r.Context(), &getAvailability.RoomDayRequest{RoomID: roomID, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrRoomNotFound):
			handlers.RespondNotFound(w, msgRoomNotFound)
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)
		default:
			h.logger.Error("GET /availability/rooms - room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromRoomDayResponse(result))
}

// HandleBookMonth GET /api/v1/availability/books/{id}?month=YYYY-MM
func (h *Handler) HandleBookMonth(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	month, err := time.ParseInLocation(domain.MonthFormat, r.URL.Query().Get("month"), civiltime.Location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.BookMonth(r.Context(), &getAvailability.BookMonthRequest{BookID: bookID, Month: month})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrBookNotFound):
			handlers.RespondNotFound(w, msgBookNotFound)
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidMonth)
		default:
			h.logger.Error("GET /availability/books - book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromBookMonthResponse(result))
}
