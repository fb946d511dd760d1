package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all quote routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/stream", h.HandleStream)

		r.Get("/{symbol}", h.HandleGetDaily)
		r.Get("/{symbol}/intraday", h.HandleGetIntraday)
		r.Post("/{symbol}/import", h.HandleImportDaily)
		r.Post("/{symbol}/import/intraday", h.HandleImportIntraday)
	})
}
