package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	sp, ok := reg.ByName("SP500")
	require.True(t, ok)
	assert.Equal(t, "IVV", sp.Symbol)
	assert.Equal(t, "USD", sp.Currency)

	es, ok := reg.ByName("EUROSTOXX50")
	require.True(t, ok)
	assert.Equal(t, "SXRT.DE", es.Symbol)
	assert.Equal(t, "EUR", es.Currency)

	_, ok = reg.ByName("FTSE100")
	assert.False(t, ok)
}

func TestBySymbolCaseInsensitive(t *testing.T) {
	reg := Default()

	b, ok := reg.BySymbol("ivv")
	require.True(t, ok)
	assert.Equal(t, "SP500", b.Name)

	_, ok = reg.BySymbol("VWCE.DE")
	assert.False(t, ok)
}

func TestAllOrderedByName(t *testing.T) {
	all := Default().All()

	require.Len(t, all, 3)
	assert.Equal(t, "EUROSTOXX50", all[0].Name)
	assert.Equal(t, "MSCI_CHINA", all[1].Name)
	assert.Equal(t, "SP500", all[2].Name)
}
