// Package quotes stores and serves price history: daily bars for every
// tracked symbol plus short-lived intraday bars.
package quotes

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Repository handles quote database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new quote repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "quotes").Logger(),
	}
}

// DailyQuotes returns the full daily history of a symbol, oldest first.
func (r *Repository) DailyQuotes(symbol string) ([]domain.DailyQuote, error) {
	rows, err := r.db.Query(
		"SELECT symbol, day, open, high, low, close, volume FROM daily_quotes WHERE symbol = ? ORDER BY day",
		symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily quotes for %s: %w", symbol, err)
	}
	defer rows.Close()
	return scanDailyQuotes(rows)
}

// DailyQuotesBetween returns the daily bars of a symbol within [start, end],
// oldest first. Both bounds are inclusive YYYY-MM-DD days.
func (r *Repository) DailyQuotesBetween(symbol, start, end string) ([]domain.DailyQuote, error) {
	rows, err := r.db.Query(
		"SELECT symbol, day, open, high, low, close, volume FROM daily_quotes WHERE symbol = ? AND day >= ? AND day <= ? ORDER BY day",
		symbol, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily quotes for %s: %w", symbol, err)
	}
	defer rows.Close()
	return scanDailyQuotes(rows)
}

// LatestDay returns the most recent stored day for a symbol, or "" when the
// symbol has no history yet. Drives the full-vs-incremental import decision.
func (r *Repository) LatestDay(symbol string) (string, error) {
	var day sql.NullString
	err := r.db.QueryRow("SELECT MAX(day) FROM daily_quotes WHERE symbol = ?", symbol).Scan(&day)
	if err != nil {
		return "", fmt.Errorf("failed to query latest day for %s: %w", symbol, err)
	}
	if !day.Valid {
		return "", nil
	}
	return day.String, nil
}

// UpsertDailyQuotes stores the given bars, replacing any existing bar for the
// same (symbol, day). Returns the number of rows written.
func (r *Repository) UpsertDailyQuotes(bars []domain.DailyQuote) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin quote transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_quotes (symbol, day, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, day) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare quote upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, bar := range bars {
		if _, err := stmt.Exec(bar.Symbol, bar.Day, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			return count, fmt.Errorf("failed to upsert quote %s/%s: %w", bar.Symbol, bar.Day, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit quote upsert: %w", err)
	}
	return count, nil
}

// IntradayQuotes returns the stored intraday bars of a symbol, oldest first.
func (r *Repository) IntradayQuotes(symbol string) ([]domain.IntradayQuote, error) {
	rows, err := r.db.Query(
		"SELECT symbol, at, close, volume FROM intraday_quotes WHERE symbol = ? ORDER BY at",
		symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query intraday quotes for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []domain.IntradayQuote
	for rows.Next() {
		var q domain.IntradayQuote
		if err := rows.Scan(&q.Symbol, &q.At, &q.Close, &q.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan intraday quote: %w", err)
		}
		bars = append(bars, q)
	}
	return bars, rows.Err()
}

// ReplaceIntradayQuotes drops the stored intraday bars of a symbol and stores
// the given set. Intraday history is a rolling window, not an archive.
func (r *Repository) ReplaceIntradayQuotes(symbol string, bars []domain.IntradayQuote) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin intraday transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM intraday_quotes WHERE symbol = ?", symbol); err != nil {
		return 0, fmt.Errorf("failed to clear intraday quotes for %s: %w", symbol, err)
	}

	stmt, err := tx.Prepare("INSERT INTO intraday_quotes (symbol, at, close, volume) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare intraday insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, bar := range bars {
		if _, err := stmt.Exec(bar.Symbol, bar.At, bar.Close, bar.Volume); err != nil {
			return count, fmt.Errorf("failed to insert intraday quote %s/%s: %w", bar.Symbol, bar.At, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit intraday quotes: %w", err)
	}
	return count, nil
}

func scanDailyQuotes(rows *sql.Rows) ([]domain.DailyQuote, error) {
	var bars []domain.DailyQuote
	for rows.Next() {
		var q domain.DailyQuote
		if err := rows.Scan(&q.Symbol, &q.Day, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily quote: %w", err)
		}
		bars = append(bars, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily quotes: %w", err)
	}
	return bars, nil
}
