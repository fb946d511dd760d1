// Package analytics derives performance statistics from a comparison run:
// what the benchmark-equivalent series did, how volatile it was and how
// closely it tracked the raw index.
package analytics

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// ErrNotEnoughData is returned when the series is too short to produce
// return statistics.
var ErrNotEnoughData = errors.New("not enough data points for analytics")

// tradingDaysPerYear is used to annualize daily volatility.
const tradingDaysPerYear = 252

// smaPeriod is the window of the moving-average overlay.
const smaPeriod = 20

// SMAPoint is one day of the moving-average overlay.
type SMAPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// Summary aggregates the performance statistics of one comparison series.
type Summary struct {
	Days                 int        `json:"days"`
	StartValue           float64    `json:"start_value"`
	EndValue             float64    `json:"end_value"`
	TotalReturn          float64    `json:"total_return"`
	MeanDailyReturn      float64    `json:"mean_daily_return"`
	Volatility           float64    `json:"volatility"`
	AnnualizedVolatility float64    `json:"annualized_volatility"`
	MaxDrawdown          float64    `json:"max_drawdown"`
	BenchmarkCorrelation float64    `json:"benchmark_correlation"`
	SMA                  []SMAPoint `json:"sma"`
}

// Service computes performance summaries.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new analytics service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("service", "analytics").Logger()}
}

// Summarize computes the statistics of a comparison point series. benchQuotes
// is the raw daily history of the benchmark, used for the tracking
// correlation; days without a matching point are ignored.
func (s *Service) Summarize(points []domain.ComparisonPoint, benchQuotes []domain.DailyQuote) (Summary, error) {
	if len(points) < 2 {
		return Summary{}, ErrNotEnoughData
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.ImpliedValue.InexactFloat64()
	}

	returns := dailyReturns(values)
	volatility := stat.StdDev(returns, nil)

	summary := Summary{
		Days:                 len(points),
		StartValue:           values[0],
		EndValue:             values[len(values)-1],
		TotalReturn:          values[len(values)-1]/values[0] - 1,
		MeanDailyReturn:      stat.Mean(returns, nil),
		Volatility:           volatility,
		AnnualizedVolatility: volatility * math.Sqrt(tradingDaysPerYear),
		MaxDrawdown:          maxDrawdown(values),
		BenchmarkCorrelation: s.benchmarkCorrelation(points, values, benchQuotes),
		SMA:                  smaOverlay(points, values),
	}
	return summary, nil
}

// benchmarkCorrelation correlates the daily returns of the implied series
// with the raw benchmark closes on the same days. Returns 0 when overlap is
// too short.
func (s *Service) benchmarkCorrelation(points []domain.ComparisonPoint, values []float64, benchQuotes []domain.DailyQuote) float64 {
	closeByDay := make(map[string]float64, len(benchQuotes))
	for _, q := range benchQuotes {
		closeByDay[q.Day] = q.Close
	}

	var pairedValues, pairedCloses []float64
	for i, p := range points {
		px, ok := closeByDay[p.Day]
		if !ok || px == 0 {
			continue
		}
		pairedValues = append(pairedValues, values[i])
		pairedCloses = append(pairedCloses, px)
	}
	if len(pairedValues) < 3 {
		return 0
	}

	valueReturns := dailyReturns(pairedValues)
	closeReturns := dailyReturns(pairedCloses)
	corr := stat.Correlation(valueReturns, closeReturns, nil)
	if math.IsNaN(corr) {
		// Constant series have zero variance and no defined correlation.
		return 0
	}
	return corr
}

// dailyReturns computes simple day-over-day returns. Zero values carry a zero
// return forward rather than dividing by zero.
func dailyReturns(values []float64) []float64 {
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, values[i]/values[i-1]-1)
	}
	return returns
}

// maxDrawdown returns the largest peak-to-trough decline as a positive
// fraction.
func maxDrawdown(values []float64) float64 {
	peak := values[0]
	worst := 0.0
	for _, v := range values[1:] {
		if v > peak {
			peak = v
			continue
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > worst {
				worst = drawdown
			}
		}
	}
	return worst
}

// smaOverlay computes the moving-average overlay. Days inside the warmup
// window are omitted.
func smaOverlay(points []domain.ComparisonPoint, values []float64) []SMAPoint {
	if len(values) < smaPeriod {
		return nil
	}

	sma := talib.Sma(values, smaPeriod)
	overlay := make([]SMAPoint, 0, len(sma)-smaPeriod+1)
	for i := smaPeriod - 1; i < len(sma); i++ {
		overlay = append(overlay, SMAPoint{Day: points[i].Day, Value: sma[i]})
	}
	return overlay
}
