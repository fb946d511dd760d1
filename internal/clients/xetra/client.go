// Package xetra fetches the Deutsche Boerse tradable-instruments feed, a
// semicolon-separated CSV of all instruments tradable on Xetra.
package xetra

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

const defaultBaseURL = "https://www.xetra.com/instruments/allTradableInstruments.csv"

// mnemonicField is the column carrying the instrument mnemonic.
const mnemonicField = 7

// Client for the Xetra instrument feed.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Xetra listing client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "xetra").Logger(),
	}
}

// FetchListing downloads and parses the German listing.
func (c *Client) FetchListing() ([]domain.Symbol, error) {
	resp, err := c.client.Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	symbols, err := parseListing(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("symbols", len(symbols)).Msg("Fetched DE listing")
	return symbols, nil
}

// parseListing keeps German instruments (DEUTSCHLAND home market or DAX
// index members) and maps their mnemonic onto the .DEX ticker convention.
// The feed repeats instruments per trading venue; the first row wins.
func parseListing(r io.Reader) ([]domain.Symbol, error) {
	var symbols []domain.Symbol
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.Contains(line, "Product Status;Instrument Status;") {
			continue
		}
		if !strings.Contains(line, "DEUTSCHLAND") && !strings.Contains(line, "DAX") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) <= mnemonicField {
			continue
		}
		symbol := truncate(parts[mnemonicField], 15) + ".DEX"
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, domain.Symbol{
			Symbol:   symbol,
			Name:     truncate(parts[2], 100),
			Currency: domain.BaseCurrency,
			Source:   domain.SourceAlphavantage,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}
	return symbols, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
