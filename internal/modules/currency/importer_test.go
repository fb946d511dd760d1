package currency

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

type fakeFxClient struct {
	rates     map[string][]domain.CurrencyRate
	err       error
	fullCalls map[string][]bool
}

func newFakeFxClient() *fakeFxClient {
	return &fakeFxClient{
		rates:     make(map[string][]domain.CurrencyRate),
		fullCalls: make(map[string][]bool),
	}
}

func (f *fakeFxClient) FxDailyHistory(fromCurrency string, full bool) ([]domain.CurrencyRate, error) {
	f.fullCalls[fromCurrency] = append(f.fullCalls[fromCurrency], full)
	return f.rates[fromCurrency], f.err
}

type fakeLister struct {
	currencies []string
	err        error
}

func (f *fakeLister) DistinctCurrencies() ([]string, error) {
	return f.currencies, f.err
}

func TestImportRatesFirstRunRequestsFullHistory(t *testing.T) {
	repo := newTestRepo(t)
	client := newFakeFxClient()
	client.rates["USD"] = []domain.CurrencyRate{{From: "USD", Day: "2020-01-02", Close: 0.9}}
	svc := NewImportService(repo, client, &fakeLister{}, zerolog.Nop())

	count, err := svc.ImportRates("USD")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, client.fullCalls["USD"], 1)
	assert.True(t, client.fullCalls["USD"][0])

	_, err = svc.ImportRates("USD")
	require.NoError(t, err)
	require.Len(t, client.fullCalls["USD"], 2)
	assert.False(t, client.fullCalls["USD"][1])
}

func TestImportRatesSkipsBaseCurrency(t *testing.T) {
	repo := newTestRepo(t)
	client := newFakeFxClient()
	svc := NewImportService(repo, client, &fakeLister{}, zerolog.Nop())

	count, err := svc.ImportRates("EUR")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, client.fullCalls)
}

func TestImportAllCoversCatalogCurrencies(t *testing.T) {
	repo := newTestRepo(t)
	client := newFakeFxClient()
	client.rates["USD"] = []domain.CurrencyRate{{From: "USD", Day: "2020-01-02", Close: 0.9}}
	client.rates["HKD"] = []domain.CurrencyRate{{From: "HKD", Day: "2020-01-02", Close: 0.115}}
	svc := NewImportService(repo, client, &fakeLister{currencies: []string{"HKD", "USD"}}, zerolog.Nop())

	total, err := svc.ImportAll()
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	all, err := repo.DailyRates()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportAllContinuesPastFailures(t *testing.T) {
	repo := newTestRepo(t)
	client := newFakeFxClient()
	client.err = errors.New("throttled")
	svc := NewImportService(repo, client, &fakeLister{currencies: []string{"USD"}}, zerolog.Nop())

	total, err := svc.ImportAll()
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
