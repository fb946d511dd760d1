package clientdata

import "time"

// TTL constants per payload type.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLDailySeries - end-of-day series only change after the close.
	TTLDailySeries = 12 * time.Hour
	// TTLIntradaySeries - 5-minute bars go stale quickly.
	TTLIntradaySeries = 10 * time.Minute
	// TTLFxSeries - daily FX series, same cadence as daily quotes.
	TTLFxSeries = 12 * time.Hour
)
