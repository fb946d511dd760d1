package quotes

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// HistoryClient fetches quote history from the external provider.
// Satisfied by the alphavantage client.
type HistoryClient interface {
	DailyHistory(symbol string, full bool) ([]domain.DailyQuote, error)
	IntradayHistory(symbol string) ([]domain.IntradayQuote, error)
}

// Broadcaster pushes fresh intraday bars to connected listeners.
// Satisfied by the websocket Hub.
type Broadcaster interface {
	Broadcast(quote domain.IntradayQuote)
}

// ImportService pulls quote history from the provider into the repository.
type ImportService struct {
	repo        *Repository
	client      HistoryClient
	broadcaster Broadcaster
	log         zerolog.Logger
}

// NewImportService creates a new quote import service. broadcaster may be nil.
func NewImportService(repo *Repository, client HistoryClient, broadcaster Broadcaster, log zerolog.Logger) *ImportService {
	return &ImportService{
		repo:        repo,
		client:      client,
		broadcaster: broadcaster,
		log:         log.With().Str("service", "quote_import").Logger(),
	}
}

// ImportDaily refreshes the daily history of a symbol. The first import pulls
// the full history; later runs pull the provider's compact window. Symbols
// not served by the provider are skipped with a zero count.
func (s *ImportService) ImportDaily(symbol domain.Symbol) (int, error) {
	if symbol.Source != domain.SourceAlphavantage {
		s.log.Debug().Str("symbol", symbol.Symbol).Str("source", symbol.Source).Msg("source not supported for daily import")
		return 0, nil
	}

	latest, err := s.repo.LatestDay(symbol.Symbol)
	if err != nil {
		return 0, err
	}
	full := latest == ""

	bars, err := s.client.DailyHistory(symbol.Symbol, full)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch daily history for %s: %w", symbol.Symbol, err)
	}

	count, err := s.repo.UpsertDailyQuotes(dedupeByDay(bars))
	if err != nil {
		return count, err
	}

	s.log.Info().Str("symbol", symbol.Symbol).Bool("full", full).Int("count", count).Msg("daily quotes imported")
	return count, nil
}

// ImportDailyAll refreshes every symbol in the given list, logging and
// skipping individual failures so one bad symbol cannot stall the batch.
func (s *ImportService) ImportDailyAll(symbols []domain.Symbol) int {
	total := 0
	for _, sym := range symbols {
		count, err := s.ImportDaily(sym)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", sym.Symbol).Msg("daily import failed")
			continue
		}
		total += count
	}
	return total
}

// ImportIntraday refreshes the intraday window of a symbol and pushes the
// newest bar to connected websocket listeners.
func (s *ImportService) ImportIntraday(symbol domain.Symbol) (int, error) {
	if symbol.Source != domain.SourceAlphavantage {
		return 0, nil
	}

	bars, err := s.client.IntradayHistory(symbol.Symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch intraday history for %s: %w", symbol.Symbol, err)
	}

	count, err := s.repo.ReplaceIntradayQuotes(symbol.Symbol, bars)
	if err != nil {
		return count, err
	}

	if s.broadcaster != nil && len(bars) > 0 {
		s.broadcaster.Broadcast(bars[len(bars)-1])
	}

	s.log.Info().Str("symbol", symbol.Symbol).Int("count", count).Msg("intraday quotes imported")
	return count, nil
}

// dedupeByDay keeps one bar per day, the last one the provider listed.
func dedupeByDay(bars []domain.DailyQuote) []domain.DailyQuote {
	seen := make(map[string]int, len(bars))
	out := make([]domain.DailyQuote, 0, len(bars))
	for _, bar := range bars {
		if idx, ok := seen[bar.Day]; ok {
			out[idx] = bar
			continue
		}
		seen[bar.Day] = len(out)
		out = append(out, bar)
	}
	return out
}
