package wire

import (
	"ticketbooth/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShow(r chi.Router, showHandler *adaptor.ShowHandler) {
	// ==================== PUBLIC ROUTES ====================
	// Browsing needs no account; the seat map is readable by anyone.
	r.Get("/api/shows", showHandler.ListShows)
	r.Get("/api/shows/{id}/seats", showHandler.GetSeatMap)
}
