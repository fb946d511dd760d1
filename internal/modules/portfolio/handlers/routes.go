package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolios", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Get("/history", h.HandleHistory)
			r.Post("/positions", h.HandleAddPosition)
			r.Post("/positions/remove", h.HandleRemovePosition)

			r.Get("/comparison/{index}", h.HandleComparison)
			r.Get("/comparison/{index}/performance", h.HandlePerformance)
		})
	})
}
