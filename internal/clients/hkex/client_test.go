package hkex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertListingFiltersAndSuffixes(t *testing.T) {
	symbols := convertListing([]listedSecurity{
		{Symbol: "00001", Name: "CKH Holdings"},
		{Symbol: "0700", Name: "Tencent Holdings"},
		{Symbol: "15000", Name: "Some Warrant"}, // >= 10000, not an equity
		{Symbol: "ABC", Name: "Not numeric"},
	})

	require.Len(t, symbols, 2)
	assert.Equal(t, "0001.HK", symbols[0].Symbol)
	assert.Equal(t, "CKH Holdings", symbols[0].Name)
	assert.Equal(t, "HKD", symbols[0].Currency)
	assert.Equal(t, "yahoo", symbols[0].Source)
	assert.Equal(t, "0700.HK", symbols[1].Symbol)
}
