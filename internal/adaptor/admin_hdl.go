package adaptor

import (
	"net/http"

	"ticketbooth/internal/dto/response"
	"ticketbooth/internal/usecase"
	"ticketbooth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	bookings usecase.BookingService
	reclaim  usecase.ReclaimService
	log      *zap.Logger
}

func NewAdminHandler(bookings usecase.BookingService, reclaim usecase.ReclaimService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		bookings: bookings,
		reclaim:  reclaim,
		log:      log.With(zap.String("handler", "admin")),
	}
}

// GetBookingByCode handles GET /api/admin/bookings/{code} (admin only)
func (h *AdminHandler) GetBookingByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		utils.ResponseBadRequest(w, "Booking code is required", nil)
		return
	}

	booking, err := h.bookings.GetBookingByCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, h.log, "get booking by code", err)
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// TriggerReclaim handles POST /api/admin/reclaim (admin only). Runs the
// same sweep the background worker runs, on demand.
func (h *AdminHandler) TriggerReclaim(w http.ResponseWriter, r *http.Request) {
	released, err := h.reclaim.ReleaseExpiredSeats(r.Context())
	if err != nil {
		writeServiceError(w, h.log, "trigger reclaim", err)
		return
	}

	utils.ResponseSuccess(w, "success", response.ReclaimResponse{SeatsReleased: released})
}
