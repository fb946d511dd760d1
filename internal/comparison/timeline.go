package comparison

import (
	"sort"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

// TimelineEntry pairs a position change with the instrument it concerns and
// the instrument's quote on the change day. HasQuote is false when the
// instrument has no quote on that exact day; such entries contribute no cash
// flow (skip, never interpolate).
type TimelineEntry struct {
	Event      domain.PositionChange
	Instrument domain.Symbol
	Quote      domain.DailyQuote
	HasQuote   bool
}

// buildTimeline derives the chronologically ordered change sequence for one
// instrument: the instrument's events sorted ascending by effective day, each
// merged with the quote on that exact day. The sort is stable, so events
// sharing a day keep their input order.
func buildTimeline(events []domain.PositionChange, instrument domain.Symbol, quotes timeseries.QuoteIndex) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(events))
	for _, ev := range events {
		if ev.SymbolID != instrument.ID {
			continue
		}
		quote, ok := quotes.Quote(ev.EffectiveDay())
		entries = append(entries, TimelineEntry{
			Event:      ev,
			Instrument: instrument,
			Quote:      quote,
			HasQuote:   ok,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Event.EffectiveDay() < entries[j].Event.EffectiveDay()
	})
	return entries
}
