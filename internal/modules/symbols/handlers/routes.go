package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all symbol routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/symbols", func(r chi.Router) {
		r.Get("/", h.HandleGetAll)
		r.Get("/{symbol}", h.HandleGetBySymbol)
		r.Get("/search/{name}", h.HandleSearchByName)

		// Listing imports
		r.Post("/import/us", h.HandleImportUS)
		r.Post("/import/hk", h.HandleImportHK)
		r.Post("/import/de", h.HandleImportDE)
		r.Post("/import/indexes", h.HandleImportIndexes)
	})
}
