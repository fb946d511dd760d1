// Package hkex fetches the Hong Kong Exchange listed-securities feed, a JSON
// array of numeric symbols and issuer names.
package hkex

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

const defaultBaseURL = "https://www.hkex.com.hk/eng/services/trading/securities/securitieslists/ListOfSecurities.json"

// listedSecurity is one entry of the HKEX feed.
type listedSecurity struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Client for the HKEX listing feed.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new HKEX listing client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "hkex").Logger(),
	}
}

// FetchListing downloads and parses the HK listing.
func (c *Client) FetchListing() ([]domain.Symbol, error) {
	resp, err := c.client.Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	var listed []listedSecurity
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	symbols := convertListing(listed)
	c.log.Info().Int("symbols", len(symbols)).Msg("Fetched HK listing")
	return symbols, nil
}

// convertListing keeps ordinary equities (numeric symbol below 10000,
// everything above is warrants and structured products) and maps them onto
// the 4-digit .HK ticker convention. HK quotes come from Yahoo.
func convertListing(listed []listedSecurity) []domain.Symbol {
	var symbols []domain.Symbol
	for _, sec := range listed {
		num, err := strconv.ParseInt(sec.Symbol, 10, 64)
		if err != nil || num >= 10000 {
			continue
		}
		symbols = append(symbols, domain.Symbol{
			Symbol:   lastFour(sec.Symbol) + ".HK",
			Name:     sec.Name,
			Currency: "HKD",
			Source:   domain.SourceYahoo,
		})
	}
	return symbols
}

func lastFour(s string) string {
	if len(s) > 4 {
		return s[len(s)-4:]
	}
	return s
}
