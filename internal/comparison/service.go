// Package comparison implements the portfolio-to-benchmark comparison engine.
// Given a portfolio's history of position changes and a benchmark index, it
// reconstructs the synthetic daily value series the same money would have had
// if invested in the benchmark, accounting for multi-currency holdings and
// for cash flows on arbitrary days.
//
// The engine is a pure, synchronous computation over already-fetched inputs:
// it performs no I/O of its own and rebuilds the series from source data on
// every call.
package comparison

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

// QuoteSource provides the daily quote history of a symbol, deduplicated per
// day by the provider.
type QuoteSource interface {
	DailyQuotes(symbol string) ([]domain.DailyQuote, error)
}

// RateSource provides the full daily FX rate history (target currency EUR).
type RateSource interface {
	DailyRates() ([]domain.CurrencyRate, error)
}

// PositionSource provides the position-change events of a portfolio.
type PositionSource interface {
	PositionEvents(portfolioID int64) ([]domain.PositionChange, error)
}

// InstrumentSource resolves symbol ids referenced by position changes.
type InstrumentSource interface {
	BySymbolIDs(ids []int64) ([]domain.Symbol, error)
}

// BenchmarkRegistry looks up a comparison index by its registry name. It is
// injected explicitly so tests can substitute a fake registry.
type BenchmarkRegistry interface {
	ByName(name string) (domain.Benchmark, bool)
}

// Result is the output of one comparison run: the date-ordered point series
// plus the anomalies absorbed while producing it.
type Result struct {
	Points []domain.ComparisonPoint `json:"points"`
	Report Report                   `json:"report"`
}

// Service orchestrates the comparison engine against the data collaborators.
type Service struct {
	quotes     QuoteSource
	rates      RateSource
	positions  PositionSource
	symbols    InstrumentSource
	benchmarks BenchmarkRegistry
	log        zerolog.Logger
}

// NewService creates a comparison service.
func NewService(
	quotes QuoteSource,
	rates RateSource,
	positions PositionSource,
	symbols InstrumentSource,
	benchmarks BenchmarkRegistry,
	log zerolog.Logger,
) *Service {
	return &Service{
		quotes:     quotes,
		rates:      rates,
		positions:  positions,
		symbols:    symbols,
		benchmarks: benchmarks,
		log:        log.With().Str("service", "comparison").Logger(),
	}
}

// Compare computes the benchmark-equivalent value series for a portfolio.
// An empty portfolio yields an empty result, not an error. An unknown
// benchmark name fails with ErrUnknownBenchmark.
func (s *Service) Compare(portfolioID int64, benchmarkName string) (Result, error) {
	bench, ok := s.benchmarks.ByName(benchmarkName)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownBenchmark, benchmarkName)
	}

	s.log.Info().
		Int64("portfolio_id", portfolioID).
		Str("benchmark", bench.Name).
		Msg("Calculating benchmark comparison")

	events, err := s.positions.PositionEvents(portfolioID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load position events: %w", err)
	}
	if len(events) == 0 {
		return Result{}, nil
	}

	allRates, err := s.rates.DailyRates()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load currency rates: %w", err)
	}
	rateIdx := timeseries.NewRateIndex(allRates)

	instruments, err := s.symbols.BySymbolIDs(distinctSymbolIDs(events))
	if err != nil {
		return Result{}, fmt.Errorf("failed to load instruments: %w", err)
	}

	benchQuotes, err := s.quotes.DailyQuotes(bench.Symbol)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load benchmark quotes: %w", err)
	}
	benchIdx := timeseries.NewQuoteIndex(benchQuotes)

	var report Report

	// Per-instrument cash deltas are merged by day before the single
	// accumulator run: the comparison is for the whole portfolio, so one
	// shared share count accumulates across all its instruments.
	deltas := make(map[string]decimal.Decimal)
	for _, instrument := range instruments {
		quotes, err := s.quotes.DailyQuotes(instrument.Symbol)
		if err != nil {
			return Result{}, fmt.Errorf("failed to load quotes for %s: %w", instrument.Symbol, err)
		}
		timeline := buildTimeline(events, instrument, timeseries.NewQuoteIndex(quotes))
		mergeCashDeltas(deltas, timeline, rateIdx, &report)
	}

	// The eligible benchmark days start strictly after the very first
	// change/removal day of the portfolio.
	firstDay := firstEventDay(events)
	var days []string
	for _, day := range benchIdx.Days() {
		if day > firstDay {
			days = append(days, day)
		}
	}

	points := accumulate(portfolioID, bench, benchIdx, rateIdx, days, sortedCashFlows(deltas), &report)

	s.log.Info().
		Int64("portfolio_id", portfolioID).
		Str("benchmark", bench.Name).
		Int("points", len(points)).
		Int("gaps", len(report.Gaps)).
		Msg("Benchmark comparison complete")

	return Result{Points: points, Report: report}, nil
}

// mergeCashDeltas folds one instrument's timeline into the per-day EUR cash
// deltas. Weights are stored in EUR already, so the amount itself needs no
// conversion; the entry still requires the instrument's quote and, for
// foreign-currency instruments, a same-day FX rate. When either is absent
// the event contributes zero and a gap is recorded - partial results are
// preferred over aborting.
func mergeCashDeltas(deltas map[string]decimal.Decimal, timeline []TimelineEntry, rates timeseries.RateIndex, report *Report) {
	for _, entry := range timeline {
		day := entry.Event.EffectiveDay()
		if !entry.HasQuote {
			report.add(GapMissingQuote, day, entry.Instrument.Symbol)
			continue
		}
		if entry.Instrument.Currency != domain.BaseCurrency {
			if _, ok := rates.Rate(entry.Instrument.Currency, day); !ok {
				report.add(GapMissingRate, day, entry.Instrument.Currency)
				continue
			}
		}
		amount := decimal.NewFromFloat(entry.Event.Weight).Abs()
		if entry.Event.IsRemoval() {
			amount = amount.Neg()
		}
		deltas[day] = deltas[day].Add(amount)
	}
}

func distinctSymbolIDs(events []domain.PositionChange) []int64 {
	seen := make(map[int64]bool, len(events))
	var ids []int64
	for _, ev := range events {
		if !seen[ev.SymbolID] {
			seen[ev.SymbolID] = true
			ids = append(ids, ev.SymbolID)
		}
	}
	return ids
}

func firstEventDay(events []domain.PositionChange) string {
	first := ""
	for _, ev := range events {
		day := ev.EffectiveDay()
		if first == "" || day < first {
			first = day
		}
	}
	return first
}
