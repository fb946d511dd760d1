package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

func TestBuildTimelineOrdersByEffectiveDay(t *testing.T) {
	instrument := domain.Symbol{ID: 1, Symbol: "MSFT", Currency: "USD"}
	events := []domain.PositionChange{
		{ID: 1, SymbolID: 1, Weight: 500, RemovedAt: "2020-02-10"},
		{ID: 2, SymbolID: 1, Weight: 1000, ChangedAt: "2020-01-02"},
		{ID: 3, SymbolID: 2, Weight: 9999, ChangedAt: "2020-01-01"}, // other instrument
		{ID: 4, SymbolID: 1, Weight: 250, ChangedAt: "2020-01-15"},
	}
	quotes := timeseries.NewQuoteIndex([]domain.DailyQuote{
		{Symbol: "MSFT", Day: "2020-01-02", Close: 100},
		{Symbol: "MSFT", Day: "2020-02-10", Close: 110},
	})

	timeline := buildTimeline(events, instrument, quotes)

	require.Len(t, timeline, 3)
	assert.Equal(t, int64(2), timeline[0].Event.ID)
	assert.Equal(t, int64(4), timeline[1].Event.ID)
	assert.Equal(t, int64(1), timeline[2].Event.ID)
}

func TestBuildTimelineAttachesExactDayQuoteOnly(t *testing.T) {
	instrument := domain.Symbol{ID: 1, Symbol: "MSFT", Currency: "USD"}
	events := []domain.PositionChange{
		{ID: 1, SymbolID: 1, Weight: 1000, ChangedAt: "2020-01-02"},
		{ID: 2, SymbolID: 1, Weight: 500, ChangedAt: "2020-01-04"}, // no quote that day
	}
	quotes := timeseries.NewQuoteIndex([]domain.DailyQuote{
		{Symbol: "MSFT", Day: "2020-01-02", Close: 100},
		{Symbol: "MSFT", Day: "2020-01-03", Close: 101},
	})

	timeline := buildTimeline(events, instrument, quotes)

	require.Len(t, timeline, 2)
	assert.True(t, timeline[0].HasQuote)
	assert.Equal(t, 100.0, timeline[0].Quote.Close)
	// No nearest-day fallback for the 2020-01-04 event.
	assert.False(t, timeline[1].HasQuote)
}

func TestBuildTimelineStableOnSameDayEvents(t *testing.T) {
	instrument := domain.Symbol{ID: 1, Symbol: "MSFT", Currency: "USD"}
	events := []domain.PositionChange{
		{ID: 7, SymbolID: 1, Weight: 100, ChangedAt: "2020-01-02"},
		{ID: 8, SymbolID: 1, Weight: 200, RemovedAt: "2020-01-02"},
		{ID: 9, SymbolID: 1, Weight: 300, ChangedAt: "2020-01-02"},
	}
	quotes := timeseries.NewQuoteIndex(nil)

	timeline := buildTimeline(events, instrument, quotes)

	require.Len(t, timeline, 3)
	assert.Equal(t, int64(7), timeline[0].Event.ID)
	assert.Equal(t, int64(8), timeline[1].Event.ID)
	assert.Equal(t, int64(9), timeline[2].Event.ID)
}
