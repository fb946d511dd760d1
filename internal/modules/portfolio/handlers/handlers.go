// Package handlers provides HTTP handlers for portfolio management and the
// benchmark comparison endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/auth"
	"github.com/dalalsunil1986/portfoliomgr/internal/comparison"
	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/analytics"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/portfolio"
)

// QuoteSource provides benchmark quote history for the performance endpoint.
type QuoteSource interface {
	DailyQuotes(symbol string) ([]domain.DailyQuote, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	service    *portfolio.Service
	comparator *comparison.Service
	analyzer   *analytics.Service
	quotes     QuoteSource
	log        zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(
	service *portfolio.Service,
	comparator *comparison.Service,
	analyzer *analytics.Service,
	quotes QuoteSource,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:    service,
		comparator: comparator,
		analyzer:   analyzer,
		quotes:     quotes,
		log:        log.With().Str("handler", "portfolio").Logger(),
	}
}

// CreateRequest represents a request to create a portfolio
type CreateRequest struct {
	Name string `json:"name"`
}

// PositionRequest represents a position addition or removal
type PositionRequest struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
	Day    string  `json:"day"`
}

// HandleCreate handles POST /api/portfolios
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(userID(r), req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": created,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleList handles GET /api/portfolios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.service.ListForUser(userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list portfolios")
		http.Error(w, "Failed to list portfolios", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"portfolios": portfolios,
			"count":      len(portfolios),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGet handles GET /api/portfolios/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": p,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleHistory handles GET /api/portfolios/{id}/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	events, err := h.service.History(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"events": events,
			"count":  len(events),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleAddPosition handles POST /api/portfolios/{id}/positions
func (h *Handler) HandleAddPosition(w http.ResponseWriter, r *http.Request) {
	h.handlePositionEdit(w, r, h.service.AddPosition)
}

// HandleRemovePosition handles POST /api/portfolios/{id}/positions/remove
func (h *Handler) HandleRemovePosition(w http.ResponseWriter, r *http.Request) {
	h.handlePositionEdit(w, r, h.service.RemovePosition)
}

func (h *Handler) handlePositionEdit(
	w http.ResponseWriter,
	r *http.Request,
	edit func(portfolioID int64, ticker string, weight float64, day string) (domain.PositionChange, error),
) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := edit(id, req.Symbol, req.Weight, req.Day)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": event,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleComparison handles GET /api/portfolios/{id}/comparison/{index}
func (h *Handler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.Get(id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	index := chi.URLParam(r, "index")
	result, err := h.comparator.Compare(id, index)
	if err != nil {
		if errors.Is(err, comparison.ErrUnknownBenchmark) {
			http.Error(w, "unknown benchmark index", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", id).Str("index", index).Msg("Comparison failed")
		http.Error(w, "Comparison failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"points": result.Points,
			"count":  len(result.Points),
			"gaps":   result.Report.Gaps,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandlePerformance handles GET /api/portfolios/{id}/comparison/{index}/performance
func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.Get(id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	index := chi.URLParam(r, "index")
	result, err := h.comparator.Compare(id, index)
	if err != nil {
		if errors.Is(err, comparison.ErrUnknownBenchmark) {
			http.Error(w, "unknown benchmark index", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", id).Str("index", index).Msg("Comparison failed")
		http.Error(w, "Comparison failed", http.StatusInternalServerError)
		return
	}

	var benchQuotes []domain.DailyQuote
	if len(result.Points) > 0 {
		benchQuotes, err = h.quotes.DailyQuotes(result.Points[0].BenchmarkSymbol)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to load benchmark quotes")
			http.Error(w, "Failed to load benchmark quotes", http.StatusInternalServerError)
			return
		}
	}

	summary, err := h.analyzer.Summarize(result.Points, benchQuotes)
	if err != nil {
		if errors.Is(err, analytics.ErrNotEnoughData) {
			http.Error(w, "not enough data points for performance analytics", http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Msg("Performance analytics failed")
		http.Error(w, "Performance analytics failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) portfolioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid portfolio id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondServiceError maps service validation errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrPortfolioNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, portfolio.ErrSymbolNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, portfolio.ErrInvalidWeight),
		errors.Is(err, portfolio.ErrInvalidDay),
		errors.Is(err, portfolio.ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error().Err(err).Msg("Portfolio operation failed")
		http.Error(w, "Portfolio operation failed", http.StatusInternalServerError)
	}
}

// userID returns the authenticated user id, or "" for unauthenticated
// (dev mode) requests.
func userID(r *http.Request) string {
	if id, ok := r.Context().Value(auth.UserIDKey).(string); ok {
		return id
	}
	return ""
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
