package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

func TestQuoteIndexExactDayLookup(t *testing.T) {
	idx := NewQuoteIndex([]domain.DailyQuote{
		{Symbol: "IVV", Day: "2020-01-03", Close: 50},
		{Symbol: "IVV", Day: "2020-01-02", Close: 49},
	})

	q, ok := idx.Quote("2020-01-03")
	require.True(t, ok)
	assert.Equal(t, 50.0, q.Close)

	// No nearest-day fallback.
	_, ok = idx.Quote("2020-01-04")
	assert.False(t, ok)
}

func TestQuoteIndexDuplicateDayLaterWins(t *testing.T) {
	idx := NewQuoteIndex([]domain.DailyQuote{
		{Symbol: "IVV", Day: "2020-01-02", Close: 49, Volume: 100},
		{Symbol: "IVV", Day: "2020-01-02", Close: 51, Volume: 200},
	})

	require.Equal(t, 1, idx.Len())
	q, ok := idx.Quote("2020-01-02")
	require.True(t, ok)
	assert.Equal(t, 51.0, q.Close)
	assert.Equal(t, int64(200), q.Volume)
}

func TestQuoteIndexDaysSorted(t *testing.T) {
	idx := NewQuoteIndex([]domain.DailyQuote{
		{Day: "2020-01-06"},
		{Day: "2020-01-02"},
		{Day: "2020-01-03"},
	})

	assert.Equal(t, []string{"2020-01-02", "2020-01-03", "2020-01-06"}, idx.Days())
}

func TestRateIndexMultipleCurrenciesPerDay(t *testing.T) {
	idx := NewRateIndex([]domain.CurrencyRate{
		{From: "USD", Day: "2020-01-02", Close: 0.9},
		{From: "HKD", Day: "2020-01-02", Close: 0.11},
		{From: "USD", Day: "2020-01-03", Close: 0.91},
	})

	r, ok := idx.Rate("USD", "2020-01-02")
	require.True(t, ok)
	assert.Equal(t, 0.9, r.Close)

	r, ok = idx.Rate("HKD", "2020-01-02")
	require.True(t, ok)
	assert.Equal(t, 0.11, r.Close)

	_, ok = idx.Rate("HKD", "2020-01-03")
	assert.False(t, ok)

	_, ok = idx.Rate("USD", "2020-01-06")
	assert.False(t, ok)
}
