package comparison

import "errors"

// ErrUnknownBenchmark is returned when the caller asks for a benchmark that
// is not in the registry. This is a caller error and fails the request; data
// gaps never do.
var ErrUnknownBenchmark = errors.New("unknown benchmark")

// GapKind classifies a data-shape anomaly absorbed during a comparison run.
type GapKind string

const (
	// GapMissingRate - no FX rate for a required (currency, day) pair.
	GapMissingRate GapKind = "missing_rate"
	// GapMissingQuote - no instrument quote on a position-change day.
	GapMissingQuote GapKind = "missing_quote"
	// GapInconsistentHistory - a removal would have driven the share count
	// negative; it was clamped to zero instead.
	GapInconsistentHistory GapKind = "inconsistent_history"
)

// Gap records one absorbed anomaly: the kind, the day it occurred on and the
// subject (symbol or currency) it concerns.
type Gap struct {
	Kind    GapKind `json:"kind"`
	Day     string  `json:"day"`
	Subject string  `json:"subject"`
}

// Report collects the anomalies of a single comparison run. Market-data gaps
// are routine, so they surface here as annotations on the result rather than
// as errors; the caller decides what, if anything, to log.
type Report struct {
	Gaps []Gap `json:"gaps,omitempty"`
}

func (r *Report) add(kind GapKind, day, subject string) {
	r.Gaps = append(r.Gaps, Gap{Kind: kind, Day: day, Subject: subject})
}

// Count returns the number of recorded gaps of the given kind.
func (r *Report) Count(kind GapKind) int {
	n := 0
	for _, g := range r.Gaps {
		if g.Kind == kind {
			n++
		}
	}
	return n
}
