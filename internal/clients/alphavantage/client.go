// Package alphavantage provides a client for the Alpha Vantage market data
// API: daily adjusted quote series, 5-minute intraday series and daily FX
// series. Responses are cached persistently; when the API fails, stale cached
// data is served as a fallback (stale data > no data).
package alphavantage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/clientdata"
	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client for the Alpha Vantage API.
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Alpha Vantage client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(apiKey string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log.With().Str("client", "alphavantage").Logger(),
		cacheRepo: cacheRepo,
	}
}

// dailyBar mirrors one day entry of a TIME_SERIES_DAILY_ADJUSTED response.
type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"6. volume"`
}

type dailyResponse struct {
	Series map[string]dailyBar `json:"Time Series (Daily)"`
	Note   string              `json:"Note"`
	Error  string              `json:"Error Message"`
}

// intradayBar mirrors one bar of a TIME_SERIES_INTRADAY response.
type intradayBar struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type intradayResponse struct {
	Series map[string]intradayBar `json:"Time Series (5min)"`
	Note   string                 `json:"Note"`
	Error  string                 `json:"Error Message"`
}

// fxBar mirrors one day entry of an FX_DAILY response.
type fxBar struct {
	Close string `json:"4. close"`
}

type fxResponse struct {
	Series map[string]fxBar `json:"Time Series FX (Daily)"`
	Note   string           `json:"Note"`
	Error  string           `json:"Error Message"`
}

// DailyHistory fetches the end-of-day quote series for a symbol, sorted
// ascending by day. With full set, the complete history is requested instead
// of the most recent 100 days.
func (c *Client) DailyHistory(symbol string, full bool) ([]domain.DailyQuote, error) {
	params := url.Values{
		"function": {"TIME_SERIES_DAILY_ADJUSTED"},
		"symbol":   {symbol},
	}
	if full {
		params.Set("outputsize", "full")
	}

	var resp dailyResponse
	if err := c.fetch("alphavantage_daily", symbol, clientdata.TTLDailySeries, params, &resp); err != nil {
		return nil, err
	}
	if err := apiError(resp.Error, resp.Note); err != nil {
		return nil, fmt.Errorf("daily series for %s: %w", symbol, err)
	}

	quotes := make([]domain.DailyQuote, 0, len(resp.Series))
	for day, bar := range resp.Series {
		quote, err := parseDailyBar(symbol, day, bar)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Str("day", day).Msg("Skipping malformed daily bar")
			continue
		}
		quotes = append(quotes, quote)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Day < quotes[j].Day })

	c.log.Info().Str("symbol", symbol).Int("days", len(quotes)).Msg("Fetched daily series")
	return quotes, nil
}

// IntradayHistory fetches the 5-minute bar series for a symbol, sorted
// ascending by timestamp.
func (c *Client) IntradayHistory(symbol string) ([]domain.IntradayQuote, error) {
	params := url.Values{
		"function": {"TIME_SERIES_INTRADAY"},
		"symbol":   {symbol},
		"interval": {"5min"},
	}

	var resp intradayResponse
	if err := c.fetch("alphavantage_intraday", symbol, clientdata.TTLIntradaySeries, params, &resp); err != nil {
		return nil, err
	}
	if err := apiError(resp.Error, resp.Note); err != nil {
		return nil, fmt.Errorf("intraday series for %s: %w", symbol, err)
	}

	bars := make([]domain.IntradayQuote, 0, len(resp.Series))
	for at, bar := range resp.Series {
		closePrice, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Str("at", at).Msg("Skipping malformed intraday bar")
			continue
		}
		volume, _ := strconv.ParseInt(bar.Volume, 10, 64)
		bars = append(bars, domain.IntradayQuote{Symbol: symbol, At: at, Close: closePrice, Volume: volume})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].At < bars[j].At })

	return bars, nil
}

// FxDailyHistory fetches the daily rate series converting fromCurrency into
// EUR, sorted ascending by day.
func (c *Client) FxDailyHistory(fromCurrency string, full bool) ([]domain.CurrencyRate, error) {
	params := url.Values{
		"function":    {"FX_DAILY"},
		"from_symbol": {fromCurrency},
		"to_symbol":   {domain.BaseCurrency},
	}
	if full {
		params.Set("outputsize", "full")
	}

	var resp fxResponse
	if err := c.fetch("alphavantage_fx", fromCurrency, clientdata.TTLFxSeries, params, &resp); err != nil {
		return nil, err
	}
	if err := apiError(resp.Error, resp.Note); err != nil {
		return nil, fmt.Errorf("fx series for %s: %w", fromCurrency, err)
	}

	rates := make([]domain.CurrencyRate, 0, len(resp.Series))
	for day, bar := range resp.Series {
		closeRate, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			c.log.Warn().Err(err).Str("currency", fromCurrency).Str("day", day).Msg("Skipping malformed fx bar")
			continue
		}
		rates = append(rates, domain.CurrencyRate{From: fromCurrency, Day: day, Close: closeRate})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Day < rates[j].Day })

	c.log.Info().Str("currency", fromCurrency).Int("days", len(rates)).Msg("Fetched fx series")
	return rates, nil
}

// fetch performs a cached GET: fresh cache hit wins, then the API, then a
// stale cache entry as a last resort.
func (c *Client) fetch(table, key string, ttl time.Duration, params url.Values, out interface{}) error {
	if c.cacheRepo != nil {
		var raw []byte
		if ok, err := c.cacheRepo.GetIfFresh(table, key, &raw); err == nil && ok {
			if err := json.Unmarshal(raw, out); err == nil {
				c.log.Debug().Str("table", table).Str("key", key).Msg("Cache hit")
				return nil
			}
		}
	}

	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	resp, err := c.client.Get(reqURL)
	if err != nil {
		if c.staleFallback(table, key, out) {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("API failed, using stale cached payload")
			return nil
		}
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if c.staleFallback(table, key, out) {
			c.log.Warn().Int("status", resp.StatusCode).Str("table", table).Str("key", key).Msg("API error, using stale cached payload")
			return nil
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if c.staleFallback(table, key, out) {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to parse API response, using stale cached payload")
			return nil
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(table, key, []byte(raw), ttl); err != nil {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to cache payload")
		}
	}

	return nil
}

// staleFallback decodes an expired cache entry into out, if one exists.
func (c *Client) staleFallback(table, key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	var raw []byte
	ok, err := c.cacheRepo.Get(table, key, &raw)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func parseDailyBar(symbol, day string, bar dailyBar) (domain.DailyQuote, error) {
	closePrice, err := strconv.ParseFloat(bar.Close, 64)
	if err != nil {
		return domain.DailyQuote{}, fmt.Errorf("bad close %q: %w", bar.Close, err)
	}
	open, _ := strconv.ParseFloat(bar.Open, 64)
	high, _ := strconv.ParseFloat(bar.High, 64)
	low, _ := strconv.ParseFloat(bar.Low, 64)
	volume, _ := strconv.ParseInt(bar.Volume, 10, 64)
	return domain.DailyQuote{
		Symbol: symbol,
		Day:    day,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// apiError converts the provider's in-band error fields into an error.
// A "Note" usually means the request rate limit was exceeded.
func apiError(errMsg, note string) error {
	if errMsg != "" {
		return fmt.Errorf("provider error: %s", errMsg)
	}
	if note != "" {
		return fmt.Errorf("provider throttled: %s", note)
	}
	return nil
}
