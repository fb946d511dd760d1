package comparison

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

func TestNormalizeEURIdentity(t *testing.T) {
	// The identity must hold regardless of FX index contents, including an
	// index that carries a (nonsense) EUR rate.
	rates := timeseries.NewRateIndex([]domain.CurrencyRate{
		{From: "EUR", Day: "2020-01-02", Close: 0.5},
		{From: "USD", Day: "2020-01-02", Close: 0.9},
	})

	for _, amount := range []string{"0", "1", "1000", "-42.5", "0.0000000001"} {
		in := decimal.RequireFromString(amount)
		out, ok := Normalize(in, "EUR", "2020-01-02", rates)
		require.True(t, ok)
		assert.True(t, in.Equal(out), "amount %s changed to %s", in, out)
	}
}

func TestNormalizeConvertsWithSameDayRate(t *testing.T) {
	rates := timeseries.NewRateIndex([]domain.CurrencyRate{
		{From: "USD", Day: "2020-01-02", Close: 0.9},
	})

	out, ok := Normalize(decimal.NewFromInt(100), "USD", "2020-01-02", rates)
	require.True(t, ok)
	assert.True(t, out.Equal(decimal.RequireFromString("90")), "got %s", out)
}

func TestNormalizeMissingRate(t *testing.T) {
	rates := timeseries.NewRateIndex([]domain.CurrencyRate{
		{From: "USD", Day: "2020-01-02", Close: 0.9},
	})

	// Rate exists for the currency but not the day.
	_, ok := Normalize(decimal.NewFromInt(100), "USD", "2020-01-03", rates)
	assert.False(t, ok)

	// Rate exists for the day but not the currency.
	_, ok = Normalize(decimal.NewFromInt(100), "HKD", "2020-01-02", rates)
	assert.False(t, ok)
}
