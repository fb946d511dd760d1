package symbols

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/benchmarks"
)

// ListingClient fetches the symbol listing of one exchange.
type ListingClient interface {
	FetchListing() ([]domain.Symbol, error)
}

// QuoteImporter triggers a quote history import for a single symbol.
// Satisfied by the quotes import service.
type QuoteImporter interface {
	ImportDaily(symbol domain.Symbol) (int, error)
}

// ImportService refreshes the symbol catalog from the exchange listings and
// keeps the reference index symbols present.
type ImportService struct {
	repo     *Repository
	us       ListingClient
	hk       ListingClient
	de       ListingClient
	registry *benchmarks.Registry
	quotes   QuoteImporter
	log      zerolog.Logger
}

// NewImportService creates a new symbol import service.
func NewImportService(
	repo *Repository,
	us, hk, de ListingClient,
	registry *benchmarks.Registry,
	quotes QuoteImporter,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		repo:     repo,
		us:       us,
		hk:       hk,
		de:       de,
		registry: registry,
		quotes:   quotes,
		log:      log.With().Str("service", "symbol_import").Logger(),
	}
}

// ImportUS imports the US exchange listing. Returns the number of symbols stored.
func (s *ImportService) ImportUS() (int, error) {
	return s.importListing(s.us, "us")
}

// ImportHK imports the Hong Kong exchange listing.
func (s *ImportService) ImportHK() (int, error) {
	return s.importListing(s.hk, "hk")
}

// ImportDE imports the German exchange listing.
func (s *ImportService) ImportDE() (int, error) {
	return s.importListing(s.de, "de")
}

// ImportAll runs every exchange import plus the reference indexes.
// Individual failures are logged and do not abort the remaining imports.
func (s *ImportService) ImportAll() {
	if _, err := s.ImportUS(); err != nil {
		s.log.Error().Err(err).Msg("US listing import failed")
	}
	if _, err := s.ImportHK(); err != nil {
		s.log.Error().Err(err).Msg("HK listing import failed")
	}
	if _, err := s.ImportDE(); err != nil {
		s.log.Error().Err(err).Msg("DE listing import failed")
	}
	if _, err := s.ImportReferenceIndexes(); err != nil {
		s.log.Error().Err(err).Msg("reference index import failed")
	}
}

// ImportReferenceIndexes upserts a symbol per registered benchmark and pulls
// its quote history so comparisons have data to work with.
func (s *ImportService) ImportReferenceIndexes() (int, error) {
	count := 0
	for _, bench := range s.registry.All() {
		sym := domain.Symbol{
			Symbol:   bench.Symbol,
			Name:     bench.DisplayName,
			Currency: bench.Currency,
			Source:   bench.Source,
		}
		id, err := s.repo.Upsert(sym)
		if err != nil {
			return count, fmt.Errorf("failed to store index symbol %s: %w", bench.Symbol, err)
		}
		sym.ID = id
		count++

		if s.quotes == nil {
			continue
		}
		if _, err := s.quotes.ImportDaily(sym); err != nil {
			s.log.Warn().Err(err).Str("symbol", sym.Symbol).Msg("index quote import failed")
		}
	}
	s.log.Info().Int("count", count).Msg("reference indexes imported")
	return count, nil
}

func (s *ImportService) importListing(client ListingClient, market string) (int, error) {
	listing, err := client.FetchListing()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s listing: %w", market, err)
	}

	count := 0
	for _, sym := range listing {
		if _, err := s.repo.Upsert(sym); err != nil {
			s.log.Warn().Err(err).Str("symbol", sym.Symbol).Msg("skipping symbol")
			continue
		}
		count++
	}

	s.log.Info().Str("market", market).Int("count", count).Msg("listing imported")
	return count, nil
}
