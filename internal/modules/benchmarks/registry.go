// Package benchmarks holds the static registry of comparison indexes.
// The set is small, not user-editable and injected explicitly wherever a
// lookup is needed, so tests can substitute their own table.
package benchmarks

import (
	"sort"
	"strings"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Registry is an immutable lookup table from registry name to benchmark.
type Registry struct {
	byName map[string]domain.Benchmark
}

// New creates a registry from the given benchmarks, keyed by Name.
func New(benchmarks ...domain.Benchmark) *Registry {
	byName := make(map[string]domain.Benchmark, len(benchmarks))
	for _, b := range benchmarks {
		byName[b.Name] = b
	}
	return &Registry{byName: byName}
}

// Default returns the supported comparison indexes.
func Default() *Registry {
	return New(
		domain.Benchmark{Name: "SP500", Symbol: "IVV", DisplayName: "S&P 500 ETF", Currency: "USD", Source: domain.SourceAlphavantage},
		domain.Benchmark{Name: "EUROSTOXX50", Symbol: "SXRT.DE", DisplayName: "EuroStoxx 50 ETF", Currency: "EUR", Source: domain.SourceAlphavantage},
		domain.Benchmark{Name: "MSCI_CHINA", Symbol: "ICGA.DE", DisplayName: "Msci China ETF", Currency: "USD", Source: domain.SourceAlphavantage},
	)
}

// ByName looks up a benchmark by registry name (e.g. "SP500").
func (r *Registry) ByName(name string) (domain.Benchmark, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// BySymbol looks up a benchmark by its quote symbol, case-insensitively.
func (r *Registry) BySymbol(symbol string) (domain.Benchmark, bool) {
	for _, b := range r.byName {
		if strings.EqualFold(b.Symbol, symbol) {
			return b, true
		}
	}
	return domain.Benchmark{}, false
}

// All returns every registered benchmark, ordered by name.
func (r *Registry) All() []domain.Benchmark {
	out := make([]domain.Benchmark, 0, len(r.byName))
	for _, b := range r.byName {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
