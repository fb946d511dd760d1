// Package currency stores daily FX rates into the base currency (EUR).
package currency

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Repository handles currency rate database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new currency rate repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "currency").Logger(),
	}
}

// DailyRates returns every stored rate, ordered by currency then day.
func (r *Repository) DailyRates() ([]domain.CurrencyRate, error) {
	rows, err := r.db.Query("SELECT from_currency, day, close FROM currency_rates ORDER BY from_currency, day")
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()
	return scanRates(rows)
}

// RatesFor returns the rate history of one currency, oldest first.
func (r *Repository) RatesFor(fromCurrency string) ([]domain.CurrencyRate, error) {
	rows, err := r.db.Query(
		"SELECT from_currency, day, close FROM currency_rates WHERE from_currency = ? ORDER BY day",
		fromCurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %s: %w", fromCurrency, err)
	}
	defer rows.Close()
	return scanRates(rows)
}

// LatestDay returns the most recent stored day for a currency, or "" when no
// history exists yet.
func (r *Repository) LatestDay(fromCurrency string) (string, error) {
	var day sql.NullString
	err := r.db.QueryRow("SELECT MAX(day) FROM currency_rates WHERE from_currency = ?", fromCurrency).Scan(&day)
	if err != nil {
		return "", fmt.Errorf("failed to query latest rate day for %s: %w", fromCurrency, err)
	}
	if !day.Valid {
		return "", nil
	}
	return day.String, nil
}

// UpsertRates stores the given rates, replacing any existing rate for the
// same (currency, day). Returns the number of rows written.
func (r *Repository) UpsertRates(rates []domain.CurrencyRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin rate transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO currency_rates (from_currency, day, close) VALUES (?, ?, ?)
		ON CONFLICT(from_currency, day) DO UPDATE SET close = excluded.close`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare rate upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, rate := range rates {
		if _, err := stmt.Exec(rate.From, rate.Day, rate.Close); err != nil {
			return count, fmt.Errorf("failed to upsert rate %s/%s: %w", rate.From, rate.Day, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rate upsert: %w", err)
	}
	return count, nil
}

func scanRates(rows *sql.Rows) ([]domain.CurrencyRate, error) {
	var rates []domain.CurrencyRate
	for rows.Next() {
		var rate domain.CurrencyRate
		if err := rows.Scan(&rate.From, &rate.Day, &rate.Close); err != nil {
			return nil, fmt.Errorf("failed to scan currency rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rates: %w", err)
	}
	return rates, nil
}
