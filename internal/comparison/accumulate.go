package comparison

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

// cashFlow is the merged EUR cash delta of one day, across all instruments.
type cashFlow struct {
	day    string
	amount decimal.Decimal
}

// sortedCashFlows converts the per-day delta map into an ascending slice.
func sortedCashFlows(deltas map[string]decimal.Decimal) []cashFlow {
	flows := make([]cashFlow, 0, len(deltas))
	for day, amount := range deltas {
		flows = append(flows, cashFlow{day: day, amount: amount})
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].day < flows[j].day })
	return flows
}

// accumState is the accumulator threaded through the fold over benchmark
// trading days. shares never goes negative; started latches once shares have
// been positive at least once, after which a point is emitted for every
// benchmark day. pending holds cash flows dated before or on the current day
// that have not been converted into shares yet: a flow landing between two
// benchmark trading days (or on the excluded first-event day) buys in at the
// next day the benchmark actually trades.
type accumState struct {
	shares  decimal.Decimal
	pending decimal.Decimal
	started bool
}

// accumulate walks the eligible benchmark trading days in ascending order,
// converting accumulated cash flows into hypothetical benchmark shares.
//
// days must be sorted ascending and contain only days present in benchIdx;
// flows must be sorted ascending by day.
func accumulate(
	portfolioID int64,
	bench domain.Benchmark,
	benchIdx timeseries.QuoteIndex,
	rates timeseries.RateIndex,
	days []string,
	flows []cashFlow,
	report *Report,
) []domain.ComparisonPoint {
	var points []domain.ComparisonPoint
	state := accumState{shares: decimal.Zero, pending: decimal.Zero}
	next := 0

	for _, day := range days {
		for next < len(flows) && flows[next].day <= day {
			state.pending = state.pending.Add(flows[next].amount)
			next++
		}

		quote, ok := benchIdx.Quote(day)
		if !ok {
			// Days come from the index, so this cannot happen; guard anyway.
			continue
		}

		priceEUR, ok := Normalize(decimal.NewFromFloat(quote.Close), bench.Currency, day, rates)
		if !ok {
			// No FX rate for the benchmark's currency: skip the day, keep the
			// pending cash for the next tradable day.
			report.add(GapMissingRate, day, bench.Currency)
			continue
		}
		if priceEUR.IsZero() {
			report.add(GapMissingQuote, day, bench.Symbol)
			continue
		}

		if state.pending.IsZero() && !state.started {
			continue
		}

		deltaShares := state.pending.DivRound(priceEUR, scale)
		state.pending = decimal.Zero
		state.shares = state.shares.Add(deltaShares)
		if state.shares.IsNegative() {
			report.add(GapInconsistentHistory, day, bench.Symbol)
			state.shares = decimal.Zero
		}
		if state.shares.IsPositive() {
			state.started = true
		}
		if !state.started {
			continue
		}

		points = append(points, domain.ComparisonPoint{
			Day:             day,
			PortfolioID:     portfolioID,
			BenchmarkSymbol: bench.Symbol,
			ImpliedShares:   state.shares,
			ImpliedValue:    state.shares.Mul(priceEUR),
			Volume:          quote.Volume,
		})
	}

	return points
}
