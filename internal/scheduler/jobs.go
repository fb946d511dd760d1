package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/clientdata"
	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/currency"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/quotes"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
)

// SymbolImportJob refreshes the symbol catalog from all exchange listings.
type SymbolImportJob struct {
	importer *symbols.ImportService
	log      zerolog.Logger
}

// NewSymbolImportJob creates the nightly symbol import job.
func NewSymbolImportJob(importer *symbols.ImportService, log zerolog.Logger) *SymbolImportJob {
	return &SymbolImportJob{
		importer: importer,
		log:      log.With().Str("job", "symbol_import").Logger(),
	}
}

// Name returns the job name.
func (j *SymbolImportJob) Name() string { return "symbol_import" }

// Run imports every exchange listing plus the reference indexes. Per-market
// failures are absorbed inside the importer.
func (j *SymbolImportJob) Run() error {
	j.importer.ImportAll()
	return nil
}

// QuoteUpdateJob refreshes the daily quote history of every symbol quoted by
// the provider, plus the FX series the catalog needs.
type QuoteUpdateJob struct {
	symbolRepo *symbols.Repository
	quotes     *quotes.ImportService
	fx         *currency.ImportService
	log        zerolog.Logger
}

// NewQuoteUpdateJob creates the nightly quote update job.
func NewQuoteUpdateJob(
	symbolRepo *symbols.Repository,
	quoteImporter *quotes.ImportService,
	fxImporter *currency.ImportService,
	log zerolog.Logger,
) *QuoteUpdateJob {
	return &QuoteUpdateJob{
		symbolRepo: symbolRepo,
		quotes:     quoteImporter,
		fx:         fxImporter,
		log:        log.With().Str("job", "quote_update").Logger(),
	}
}

// Name returns the job name.
func (j *QuoteUpdateJob) Name() string { return "quote_update" }

// Run updates quotes for all provider-served symbols and then the FX series.
func (j *QuoteUpdateJob) Run() error {
	all, err := j.symbolRepo.GetAll()
	if err != nil {
		return err
	}

	var supported []domain.Symbol
	for _, sym := range all {
		if sym.Source == domain.SourceAlphavantage {
			supported = append(supported, sym)
		}
	}
	imported := j.quotes.ImportDailyAll(supported)
	j.log.Info().Int("symbols", len(supported)).Int("bars", imported).Msg("quote update finished")

	rateCount, err := j.fx.ImportAll()
	if err != nil {
		return err
	}
	j.log.Info().Int("rates", rateCount).Msg("FX update finished")
	return nil
}

// CacheCleanupJob evicts expired external API payloads from the cache tables.
type CacheCleanupJob struct {
	cache *clientdata.Repository
	log   zerolog.Logger
}

// NewCacheCleanupJob creates the cache cleanup job.
func NewCacheCleanupJob(cache *clientdata.Repository, log zerolog.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache: cache,
		log:   log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Name returns the job name.
func (j *CacheCleanupJob) Name() string { return "cache_cleanup" }

// Run deletes expired cache rows from every cache table.
func (j *CacheCleanupJob) Run() error {
	removed, err := j.cache.DeleteAllExpired()
	if err != nil {
		return err
	}
	var total int64
	for _, n := range removed {
		total += n
	}
	if total > 0 {
		j.log.Info().Int64("removed", total).Msg("expired cache rows deleted")
	}
	return nil
}
