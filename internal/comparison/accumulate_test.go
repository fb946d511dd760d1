package comparison

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

func TestPendingCashCarriesAcrossSkippedBenchmarkDay(t *testing.T) {
	// Benchmark in USD with no FX rate on the first eligible day: the day is
	// skipped, but the cash flow is not lost - it buys in on the next day
	// the benchmark trades with a usable rate.
	store := singleAdditionStore()
	store.rates = []domain.CurrencyRate{
		{From: "USD", Day: "2020-01-06", Close: 0.5},
	}
	registry := fakeRegistry{
		"SP500": {Name: "SP500", Symbol: "IVV", Currency: "USD", Source: domain.SourceAlphavantage},
	}
	svc := NewService(store, store, store, store, registry, zerolog.Nop())

	result, err := svc.Compare(1, "SP500")
	require.NoError(t, err)

	require.Len(t, result.Points, 1)
	assert.Equal(t, "2020-01-06", result.Points[0].Day)
	// 55 USD * 0.5 = 27.5 EUR; 1000 / 27.5 rounded half-up at scale 10.
	assert.Equal(t, "36.3636363636", result.Points[0].ImpliedShares.StringFixed(10))
	assert.Equal(t, 1, result.Report.Count(GapMissingRate))
}

func TestSortedCashFlowsAscending(t *testing.T) {
	flows := sortedCashFlows(map[string]decimal.Decimal{
		"2020-03-01": decimal.NewFromInt(1),
		"2020-01-02": decimal.NewFromInt(2),
		"2020-02-10": decimal.NewFromInt(3),
	})

	require.Len(t, flows, 3)
	assert.Equal(t, "2020-01-02", flows[0].day)
	assert.Equal(t, "2020-02-10", flows[1].day)
	assert.Equal(t, "2020-03-01", flows[2].day)
}
