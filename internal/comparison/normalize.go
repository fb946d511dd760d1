package comparison

import (
	"github.com/shopspring/decimal"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/timeseries"
)

// scale is the fixed number of fractional digits kept by every division in
// the engine. Divisions round half-up at this scale; multiplications keep
// full precision.
const scale = 10

// Normalize converts an amount in the given currency into EUR using the FX
// rate for the exact day. For EUR amounts it is the identity and never
// consults the index. The boolean is false when the required rate is absent;
// the caller decides whether to skip the day or record a gap.
func Normalize(amount decimal.Decimal, currency, day string, rates timeseries.RateIndex) (decimal.Decimal, bool) {
	if currency == domain.BaseCurrency {
		return amount, true
	}
	rate, ok := rates.Rate(currency, day)
	if !ok {
		return decimal.Decimal{}, false
	}
	return amount.Mul(decimal.NewFromFloat(rate.Close)), true
}
