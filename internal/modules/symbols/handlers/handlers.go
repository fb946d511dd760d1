// Package handlers provides HTTP handlers for the symbol catalog.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
)

// Handler handles symbol HTTP requests
type Handler struct {
	repo     *symbols.Repository
	importer *symbols.ImportService
	log      zerolog.Logger
}

// NewHandler creates a new symbol handler
func NewHandler(repo *symbols.Repository, importer *symbols.ImportService, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		importer: importer,
		log:      log.With().Str("handler", "symbols").Logger(),
	}
}

// HandleGetAll handles GET /api/symbols
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load symbols")
		http.Error(w, "Failed to load symbols", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbols": all,
			"count":   len(all),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetBySymbol handles GET /api/symbols/{symbol}
func (h *Handler) HandleGetBySymbol(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "symbol")
	if ticker == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	sym, found, err := h.repo.BySymbol(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", ticker).Msg("Failed to load symbol")
		http.Error(w, "Failed to load symbol", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "symbol not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": sym,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleSearchByName handles GET /api/symbols/search/{name}
func (h *Handler) HandleSearchByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	matches, err := h.repo.SearchByName(name)
	if err != nil {
		h.log.Error().Err(err).Str("name", name).Msg("Failed to search symbols")
		http.Error(w, "Failed to search symbols", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbols": matches,
			"count":   len(matches),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleImportUS handles POST /api/symbols/import/us
func (h *Handler) HandleImportUS(w http.ResponseWriter, r *http.Request) {
	h.runImport(w, "us", h.importer.ImportUS)
}

// HandleImportHK handles POST /api/symbols/import/hk
func (h *Handler) HandleImportHK(w http.ResponseWriter, r *http.Request) {
	h.runImport(w, "hk", h.importer.ImportHK)
}

// HandleImportDE handles POST /api/symbols/import/de
func (h *Handler) HandleImportDE(w http.ResponseWriter, r *http.Request) {
	h.runImport(w, "de", h.importer.ImportDE)
}

// HandleImportIndexes handles POST /api/symbols/import/indexes
func (h *Handler) HandleImportIndexes(w http.ResponseWriter, r *http.Request) {
	h.runImport(w, "indexes", h.importer.ImportReferenceIndexes)
}

func (h *Handler) runImport(w http.ResponseWriter, market string, importFn func() (int, error)) {
	count, err := importFn()
	if err != nil {
		h.log.Error().Err(err).Str("market", market).Msg("Symbol import failed")
		http.Error(w, "Symbol import failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"market":   market,
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
