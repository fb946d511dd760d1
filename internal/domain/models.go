// Package domain contains the core data types shared across modules.
// The domain layer is pure: no database, HTTP or logging dependencies.
package domain

import "github.com/shopspring/decimal"

// BaseCurrency is the fixed reporting currency. All normalized amounts and
// portfolio weights are expressed in it.
const BaseCurrency = "EUR"

// Quote sources supported by the import pipeline.
const (
	SourceAlphavantage = "alphavantage"
	SourceYahoo        = "yahoo"
)

// DayFormat is the canonical date layout used everywhere dates are carried as
// strings. Lexicographic order on these strings equals chronological order.
const DayFormat = "2006-01-02"

// Symbol is a tracked equity, ETF or index listing.
type Symbol struct {
	ID       int64  `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

// DailyQuote is one end-of-day price record for a symbol.
// At most one quote exists per (symbol, day); quotes are append-only facts.
type DailyQuote struct {
	Symbol string  `json:"symbol"`
	Day    string  `json:"day"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// IntradayQuote is a single intraday bar (5-minute bars from the provider).
type IntradayQuote struct {
	Symbol string  `json:"symbol"`
	At     string  `json:"at"` // YYYY-MM-DD HH:MM:SS
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CurrencyRate converts From into the base currency (EUR) by multiplication
// with Close. At most one rate exists per (from, day).
type CurrencyRate struct {
	From  string  `json:"from"`
	Day   string  `json:"day"`
	Close float64 `json:"close"`
}

// Portfolio is a user-owned collection of position changes.
type Portfolio struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// PositionChange is a dated, signed cash-flow record representing a portfolio
// composition edit. Weight is a monetary amount in EUR at the time of the
// change. Exactly one of ChangedAt/RemovedAt is set (empty string = unset);
// ChangedAt marks an addition or increase, RemovedAt a removal. Records are
// immutable: an edit is superseded by a new record, never mutated.
type PositionChange struct {
	ID          int64   `json:"id"`
	PortfolioID int64   `json:"portfolio_id"`
	SymbolID    int64   `json:"symbol_id"`
	Weight      float64 `json:"weight"`
	ChangedAt   string  `json:"changed_at,omitempty"`
	RemovedAt   string  `json:"removed_at,omitempty"`
}

// EffectiveDay returns the day the change applies on: ChangedAt when set,
// RemovedAt otherwise.
func (p PositionChange) EffectiveDay() string {
	if p.ChangedAt != "" {
		return p.ChangedAt
	}
	return p.RemovedAt
}

// IsRemoval reports whether the change withdraws money from the portfolio.
func (p PositionChange) IsRemoval() bool {
	return p.ChangedAt == ""
}

// Benchmark describes one of the static comparison indexes.
type Benchmark struct {
	Name        string `json:"name"`   // registry key, e.g. "SP500"
	Symbol      string `json:"symbol"` // quote symbol, e.g. "IVV"
	DisplayName string `json:"display_name"`
	Currency    string `json:"currency"`
	Source      string `json:"source"`
}

// ComparisonPoint is one day of the benchmark-equivalent value series: what
// the portfolio's cash flows would be worth had they bought the benchmark
// instead. Volume is carried through from the benchmark quote unmodified.
type ComparisonPoint struct {
	Day             string          `json:"day"`
	PortfolioID     int64           `json:"portfolio_id"`
	BenchmarkSymbol string          `json:"benchmark_symbol"`
	ImpliedShares   decimal.Decimal `json:"implied_shares"`
	ImpliedValue    decimal.Decimal `json:"implied_value"`
	Volume          int64           `json:"volume"`
}
