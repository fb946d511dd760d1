// Package handlers provides HTTP handlers for FX rate operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/modules/currency"
)

// Handler handles currency HTTP requests
type Handler struct {
	repo     *currency.Repository
	importer *currency.ImportService
	log      zerolog.Logger
}

// NewHandler creates a new currency handler
func NewHandler(repo *currency.Repository, importer *currency.ImportService, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		importer: importer,
		log:      log.With().Str("handler", "currency").Logger(),
	}
}

// HandleGetRates handles GET /api/currency/rates/{from}
func (h *Handler) HandleGetRates(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	if from == "" {
		http.Error(w, "currency is required", http.StatusBadRequest)
		return
	}

	rates, err := h.repo.RatesFor(from)
	if err != nil {
		h.log.Error().Err(err).Str("currency", from).Msg("Failed to load rates")
		http.Error(w, "Failed to load rates", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"from_currency": from,
			"rates":         rates,
			"count":         len(rates),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleImport handles POST /api/currency/import — refreshes every foreign
// currency in the symbol catalog.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	count, err := h.importer.ImportAll()
	if err != nil {
		h.log.Error().Err(err).Msg("FX import failed")
		http.Error(w, "FX import failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"imported": count,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
