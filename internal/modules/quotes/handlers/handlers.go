// Package handlers provides HTTP handlers for quote queries and imports.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/quotes"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
)

// Handler handles quote HTTP requests
type Handler struct {
	repo     *quotes.Repository
	importer *quotes.ImportService
	symbols  *symbols.Repository
	hub      *quotes.Hub
	log      zerolog.Logger
}

// NewHandler creates a new quote handler
func NewHandler(
	repo *quotes.Repository,
	importer *quotes.ImportService,
	symbolRepo *symbols.Repository,
	hub *quotes.Hub,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		repo:     repo,
		importer: importer,
		symbols:  symbolRepo,
		hub:      hub,
		log:      log.With().Str("handler", "quotes").Logger(),
	}
}

// HandleGetDaily handles GET /api/quotes/{symbol}
// Optional ?start=YYYY-MM-DD&end=YYYY-MM-DD narrows the range.
func (h *Handler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "symbol")
	if ticker == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	var (
		bars interface{}
		n    int
		err  error
	)
	if start != "" || end != "" {
		if start == "" {
			start = "0000-01-01"
		}
		if end == "" {
			end = "9999-12-31"
		}
		ranged, rangeErr := h.repo.DailyQuotesBetween(ticker, start, end)
		bars, n, err = ranged, len(ranged), rangeErr
	} else {
		all, allErr := h.repo.DailyQuotes(ticker)
		bars, n, err = all, len(all), allErr
	}
	if err != nil {
		h.log.Error().Err(err).Str("symbol", ticker).Msg("Failed to load daily quotes")
		http.Error(w, "Failed to load daily quotes", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": ticker,
			"quotes": bars,
			"count":  n,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetIntraday handles GET /api/quotes/{symbol}/intraday
func (h *Handler) HandleGetIntraday(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "symbol")
	if ticker == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	bars, err := h.repo.IntradayQuotes(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", ticker).Msg("Failed to load intraday quotes")
		http.Error(w, "Failed to load intraday quotes", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": ticker,
			"quotes": bars,
			"count":  len(bars),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleImportDaily handles POST /api/quotes/{symbol}/import
func (h *Handler) HandleImportDaily(w http.ResponseWriter, r *http.Request) {
	sym, ok := h.resolveSymbol(w, r)
	if !ok {
		return
	}

	count, err := h.importer.ImportDaily(sym)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", sym.Symbol).Msg("Daily quote import failed")
		http.Error(w, "Daily quote import failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":   sym.Symbol,
			"imported": count,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleImportIntraday handles POST /api/quotes/{symbol}/import/intraday
func (h *Handler) HandleImportIntraday(w http.ResponseWriter, r *http.Request) {
	sym, ok := h.resolveSymbol(w, r)
	if !ok {
		return
	}

	count, err := h.importer.ImportIntraday(sym)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", sym.Symbol).Msg("Intraday quote import failed")
		http.Error(w, "Intraday quote import failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":   sym.Symbol,
			"imported": count,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleStream handles GET /api/quotes/stream — the intraday websocket feed.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	h.hub.HandleWS(w, r)
}

func (h *Handler) resolveSymbol(w http.ResponseWriter, r *http.Request) (domain.Symbol, bool) {
	ticker := chi.URLParam(r, "symbol")
	if ticker == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return domain.Symbol{}, false
	}

	sym, found, err := h.symbols.BySymbol(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", ticker).Msg("Failed to load symbol")
		http.Error(w, "Failed to load symbol", http.StatusInternalServerError)
		return domain.Symbol{}, false
	}
	if !found {
		http.Error(w, "symbol not found", http.StatusNotFound)
		return domain.Symbol{}, false
	}
	return sym, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
