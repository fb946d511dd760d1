package currency

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// FxClient fetches the FX history of one currency into the base currency.
// Satisfied by the alphavantage client.
type FxClient interface {
	FxDailyHistory(fromCurrency string, full bool) ([]domain.CurrencyRate, error)
}

// CurrencyLister reports which foreign currencies the symbol catalog uses.
// Satisfied by the symbols repository.
type CurrencyLister interface {
	DistinctCurrencies() ([]string, error)
}

// ImportService keeps an FX series per foreign currency in the catalog.
type ImportService struct {
	repo   *Repository
	client FxClient
	lister CurrencyLister
	log    zerolog.Logger
}

// NewImportService creates a new FX import service.
func NewImportService(repo *Repository, client FxClient, lister CurrencyLister, log zerolog.Logger) *ImportService {
	return &ImportService{
		repo:   repo,
		client: client,
		lister: lister,
		log:    log.With().Str("service", "fx_import").Logger(),
	}
}

// ImportRates refreshes the FX history of one currency. The first import
// pulls the full series; later runs pull the provider's compact window.
func (s *ImportService) ImportRates(fromCurrency string) (int, error) {
	if fromCurrency == domain.BaseCurrency {
		return 0, nil
	}

	latest, err := s.repo.LatestDay(fromCurrency)
	if err != nil {
		return 0, err
	}
	full := latest == ""

	rates, err := s.client.FxDailyHistory(fromCurrency, full)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch FX history for %s: %w", fromCurrency, err)
	}

	count, err := s.repo.UpsertRates(rates)
	if err != nil {
		return count, err
	}

	s.log.Info().Str("currency", fromCurrency).Bool("full", full).Int("count", count).Msg("FX rates imported")
	return count, nil
}

// ImportAll refreshes every foreign currency present in the symbol catalog,
// logging and skipping individual failures.
func (s *ImportService) ImportAll() (int, error) {
	currencies, err := s.lister.DistinctCurrencies()
	if err != nil {
		return 0, fmt.Errorf("failed to list catalog currencies: %w", err)
	}

	total := 0
	for _, currency := range currencies {
		count, err := s.ImportRates(currency)
		if err != nil {
			s.log.Warn().Err(err).Str("currency", currency).Msg("FX import failed")
			continue
		}
		total += count
	}
	return total, nil
}
