// Package nasdaq fetches the NASDAQ symbol directory listing, a
// pipe-separated text feed of all listed US symbols.
package nasdaq

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

const defaultBaseURL = "https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqlisted.txt"

// Client for the NASDAQ symbol directory.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new NASDAQ listing client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "nasdaq").Logger(),
	}
}

// FetchListing downloads and parses the full US listing.
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

	c.log.Info().Int("symbols", len(symbols)).Msg("Fetched US listing")
	return symbols, nil
}

// parseListing converts the pipe-separated feed into symbols. Header and
// footer lines are skipped; US symbols trade in USD and are quoted via
// Alpha Vantage.
func parseListing(r io.Reader) ([]domain.Symbol, error) {
	var symbols []domain.Symbol
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if skipLine(line) {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		symbols = append(symbols, domain.Symbol{
			Symbol:   truncate(parts[0], 15),
			Name:     truncate(parts[1], 100),
			Currency: "USD",
			Source:   domain.SourceAlphavantage,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}
	return symbols, nil
}

// skipLine reports whether the line is a header or footer of the feed.
func skipLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	for _, marker := range []string{
		"ACT Symbol|Security Name|Exchange|",
		"Symbol|Security Name|Market Category|",
		"File Creation Time:",
		"Market:",
		"Date Last Update:",
	} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
