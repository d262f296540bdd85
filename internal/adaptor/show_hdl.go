package adaptor

import (
	"net/http"

	"ticketbooth/internal/dto/request"
	"ticketbooth/internal/usecase"
	"ticketbooth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowHandler struct {
	service usecase.ShowService
	log     *zap.Logger
}

func NewShowHandler(service usecase.ShowService, log *zap.Logger) *ShowHandler {
	return &ShowHandler{
		service: service,
		log:     log.With(zap.String("handler", "show")),
	}
}

// ListShows handles GET /api/shows?venue_id=...&date=YYYY-MM-DD (public)
func (h *ShowHandler) ListShows(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListShowsRequest{
		VenueID: query.Get("venue_id"),
		Date:    query.Get("date"),
	}

	shows, err := h.service.ListShows(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, "list shows", err)
		return
	}

	utils.ResponseSuccess(w, "success", shows)
}

// GetSeatMap handles GET /api/shows/{id}/seats (public)
func (h *ShowHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "id")
	if showID == "" {
		utils.ResponseBadRequest(w, "Show ID is required", nil)
		return
	}

	seatMap, err := h.service.GetSeatMap(r.Context(), showID)
	if err != nil {
		writeServiceError(w, h.log, "get seat map", err)
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}
