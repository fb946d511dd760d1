package alphavantage

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/clientdata"
	"github.com/dalalsunil1986/portfoliomgr/internal/database"
)

const dailyPayload = `{
  "Meta Data": {"2. Symbol": "IVV"},
  "Time Series (Daily)": {
    "2020-01-06": {"1. open": "54.0", "2. high": "55.5", "3. low": "53.9", "4. close": "55.0", "6. volume": "1100"},
    "2020-01-03": {"1. open": "49.0", "2. high": "50.5", "3. low": "48.9", "4. close": "50.0", "6. volume": "1000"}
  }
}`

const fxPayload = `{
  "Meta Data": {"2. From Symbol": "USD", "3. To Symbol": "EUR"},
  "Time Series FX (Daily)": {
    "2020-01-03": {"4. close": "0.9000"},
    "2020-01-02": {"4. close": "0.8900"}
  }
}`

var testDBCounter int

func newTestCache(t *testing.T) *clientdata.Repository {
	t.Helper()
	testDBCounter++
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:avclient%d?mode=memory&cache=shared", testDBCounter),
		Profile: database.ProfileCache,
		Name:    "avclient-test",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return clientdata.NewRepository(db.Conn())
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cache *clientdata.Repository) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key", cache, zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestDailyHistoryParsesAndSorts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		assert.Equal(t, "IVV", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, dailyPayload)
	}, nil)

	quotes, err := client.DailyHistory("IVV", false)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "2020-01-03", quotes[0].Day)
	assert.Equal(t, 50.0, quotes[0].Close)
	assert.Equal(t, int64(1000), quotes[0].Volume)
	assert.Equal(t, "2020-01-06", quotes[1].Day)
	assert.Equal(t, 55.0, quotes[1].Close)
}

func TestDailyHistoryFullRequestsCompleteSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		fmt.Fprint(w, dailyPayload)
	}, nil)

	_, err := client.DailyHistory("IVV", true)
	require.NoError(t, err)
}

func TestFxDailyHistoryTargetsBaseCurrency(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "USD", r.URL.Query().Get("from_symbol"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to_symbol"))
		fmt.Fprint(w, fxPayload)
	}, nil)

	rates, err := client.FxDailyHistory("USD", false)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "2020-01-02", rates[0].Day)
	assert.Equal(t, 0.89, rates[0].Close)
	assert.Equal(t, "USD", rates[0].From)
}

func TestProviderThrottleNoteIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	}, nil)

	_, err := client.DailyHistory("IVV", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSecondCallServedFromCache(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, dailyPayload)
	}, newTestCache(t))

	_, err := client.DailyHistory("IVV", false)
	require.NoError(t, err)
	quotes, err := client.DailyHistory("IVV", false)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, quotes, 2)
}

func TestStaleCacheServesWhenAPIFails(t *testing.T) {
	cache := newTestCache(t)

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, dailyPayload)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}, cache)

	_, err := client.DailyHistory("IVV", false)
	require.NoError(t, err)

	// Expire the cached payload, then make the API fail.
	_, err = cache.DeleteExpired("alphavantage_daily")
	require.NoError(t, err)
	require.NoError(t, cache.Store("alphavantage_daily", "IVV", []byte(dailyPayload), -1))

	quotes, err := client.DailyHistory("IVV", false)
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	assert.Equal(t, 2, calls)
}
