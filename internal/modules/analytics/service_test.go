package analytics

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

func point(day string, value float64) domain.ComparisonPoint {
	return domain.ComparisonPoint{
		Day:             day,
		PortfolioID:     1,
		BenchmarkSymbol: "IVV",
		ImpliedValue:    decimal.NewFromFloat(value),
	}
}

func TestSummarizeBasicStatistics(t *testing.T) {
	svc := NewService(zerolog.Nop())

	points := []domain.ComparisonPoint{
		point("2020-01-02", 1000),
		point("2020-01-03", 1100),
		point("2020-01-06", 990),
	}

	summary, err := svc.Summarize(points, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, 1000.0, summary.StartValue)
	assert.Equal(t, 990.0, summary.EndValue)
	assert.InDelta(t, -0.01, summary.TotalReturn, 1e-9)
	// Returns: +10%, -10%.
	assert.InDelta(t, 0.0, summary.MeanDailyReturn, 1e-3)
	assert.Greater(t, summary.Volatility, 0.0)
	// Peak 1100 to trough 990.
	assert.InDelta(t, 0.1, summary.MaxDrawdown, 1e-9)
}

func TestSummarizeRequiresTwoPoints(t *testing.T) {
	svc := NewService(zerolog.Nop())

	_, err := svc.Summarize([]domain.ComparisonPoint{point("2020-01-02", 1000)}, nil)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestBenchmarkCorrelationTracksIndex(t *testing.T) {
	svc := NewService(zerolog.Nop())

	// An implied series that is a constant multiple of the index moves in
	// lockstep with it.
	var points []domain.ComparisonPoint
	var quotes []domain.DailyQuote
	days := []string{"2020-01-02", "2020-01-03", "2020-01-06", "2020-01-07", "2020-01-08"}
	closes := []float64{48, 50, 55, 52, 56}
	for i, day := range days {
		points = append(points, point(day, closes[i]*20))
		quotes = append(quotes, domain.DailyQuote{Symbol: "IVV", Day: day, Close: closes[i]})
	}

	summary, err := svc.Summarize(points, quotes)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, summary.BenchmarkCorrelation, 1e-9)
}

func TestBenchmarkCorrelationZeroWithoutOverlap(t *testing.T) {
	svc := NewService(zerolog.Nop())

	points := []domain.ComparisonPoint{
		point("2020-01-02", 1000),
		point("2020-01-03", 1100),
	}
	quotes := []domain.DailyQuote{{Symbol: "IVV", Day: "2021-06-01", Close: 48}}

	summary, err := svc.Summarize(points, quotes)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.BenchmarkCorrelation)
}

func TestSMAOverlaySkipsWarmup(t *testing.T) {
	svc := NewService(zerolog.Nop())

	var points []domain.ComparisonPoint
	for i := 0; i < 25; i++ {
		points = append(points, point(dayN(i), 1000+float64(i)))
	}

	summary, err := svc.Summarize(points, nil)
	require.NoError(t, err)

	// 25 points with a 20-day window leave 6 overlay points.
	require.Len(t, summary.SMA, 6)
	assert.Equal(t, points[19].Day, summary.SMA[0].Day)
	// SMA of 1000..1019 is 1009.5.
	assert.InDelta(t, 1009.5, summary.SMA[0].Value, 1e-9)
}

func TestSMAOverlayEmptyWhenSeriesShort(t *testing.T) {
	svc := NewService(zerolog.Nop())

	points := []domain.ComparisonPoint{
		point("2020-01-02", 1000),
		point("2020-01-03", 1010),
	}

	summary, err := svc.Summarize(points, nil)
	require.NoError(t, err)
	assert.Empty(t, summary.SMA)
}

// dayN produces sequential synthetic days for fixture series.
func dayN(i int) string {
	return fmt.Sprintf("2020-03-%02d", i+1)
}
