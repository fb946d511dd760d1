// Package timeseries builds exact-date lookup indexes over unordered
// collections of dated records (daily quotes, FX rates). Lookups are by exact
// day only: no range queries, no interpolation between neighboring days.
package timeseries

import (
	"sort"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// QuoteIndex maps a YYYY-MM-DD day to the single quote recorded for that day.
// Quotes are a single-valued series: when the input carries duplicates for a
// day, the later record wins.
type QuoteIndex struct {
	byDay map[string]domain.DailyQuote
}

// NewQuoteIndex builds a QuoteIndex from an unordered quote collection.
func NewQuoteIndex(quotes []domain.DailyQuote) QuoteIndex {
	byDay := make(map[string]domain.DailyQuote, len(quotes))
	for _, q := range quotes {
		byDay[q.Day] = q
	}
	return QuoteIndex{byDay: byDay}
}

// Quote returns the quote for the exact day, if any.
func (idx QuoteIndex) Quote(day string) (domain.DailyQuote, bool) {
	q, ok := idx.byDay[day]
	return q, ok
}

// Len returns the number of distinct days in the index.
func (idx QuoteIndex) Len() int {
	return len(idx.byDay)
}

// Days returns all indexed days in ascending order.
func (idx QuoteIndex) Days() []string {
	days := make([]string, 0, len(idx.byDay))
	for day := range idx.byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// RateIndex maps a day to the FX rates recorded for that day, keyed by the
// rate's from-currency. Multiple from-currencies legitimately coexist on the
// same day, so this is a multi-valued series.
type RateIndex struct {
	byDay map[string]map[string]domain.CurrencyRate
}

// NewRateIndex builds a RateIndex from an unordered rate collection.
func NewRateIndex(rates []domain.CurrencyRate) RateIndex {
	byDay := make(map[string]map[string]domain.CurrencyRate)
	for _, r := range rates {
		dayRates, ok := byDay[r.Day]
		if !ok {
			dayRates = make(map[string]domain.CurrencyRate)
			byDay[r.Day] = dayRates
		}
		dayRates[r.From] = r
	}
	return RateIndex{byDay: byDay}
}

// Rate returns the rate converting from the given currency into EUR on the
// exact day, if any.
func (idx RateIndex) Rate(from, day string) (domain.CurrencyRate, bool) {
	dayRates, ok := idx.byDay[day]
	if !ok {
		return domain.CurrencyRate{}, false
	}
	r, ok := dayRates[from]
	return r, ok
}
