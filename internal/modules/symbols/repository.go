// Package symbols manages the listing catalog: every equity, ETF and index
// the system tracks, where its quotes come from and which currency it trades
// in.
package symbols

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Repository handles symbol database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new symbol repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "symbols").Logger(),
	}
}

const symbolColumns = "id, symbol, name, currency, source"

// GetAll returns every tracked symbol ordered by ticker.
func (r *Repository) GetAll() ([]domain.Symbol, error) {
	rows, err := r.db.Query("SELECT " + symbolColumns + " FROM symbols ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// BySymbol returns the symbol with the given ticker (case-insensitive).
func (r *Repository) BySymbol(symbol string) (domain.Symbol, bool, error) {
	var s domain.Symbol
	err := r.db.QueryRow(
		"SELECT "+symbolColumns+" FROM symbols WHERE symbol = ? COLLATE NOCASE", symbol,
	).Scan(&s.ID, &s.Symbol, &s.Name, &s.Currency, &s.Source)
	if err == sql.ErrNoRows {
		return domain.Symbol{}, false, nil
	}
	if err != nil {
		return domain.Symbol{}, false, fmt.Errorf("failed to query symbol %s: %w", symbol, err)
	}
	return s, true, nil
}

// SearchByName returns symbols whose display name contains the given text.
func (r *Repository) SearchByName(name string) ([]domain.Symbol, error) {
	rows, err := r.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE name LIKE ? ORDER BY symbol",
		"%"+name+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols by name: %w", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// BySymbolIDs resolves the given ids, skipping unknown ones.
func (r *Repository) BySymbolIDs(ids []int64) ([]domain.Symbol, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE id IN ("+placeholders+") ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols by ids: %w", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// DistinctCurrencies returns the currencies of all tracked symbols except
// the base currency. Used to decide which FX series to import.
func (r *Repository) DistinctCurrencies() ([]string, error) {
	rows, err := r.db.Query(
		"SELECT DISTINCT currency FROM symbols WHERE currency != ? ORDER BY currency",
		domain.BaseCurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// Upsert inserts the symbol or, when the ticker already exists
// (case-insensitive), replaces its name, currency and source.
// Returns the row id.
func (r *Repository) Upsert(s domain.Symbol) (int64, error) {
	_, err := r.db.Exec(`
		INSERT INTO symbols (symbol, name, currency, source) VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET name = excluded.name, currency = excluded.currency, source = excluded.source`,
		s.Symbol, s.Name, s.Currency, s.Source,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert symbol %s: %w", s.Symbol, err)
	}
	// LastInsertId is unreliable on conflict-update, so read the row back.
	existing, found, err := r.BySymbol(s.Symbol)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("symbol %s not found after upsert", s.Symbol)
	}
	return existing.ID, nil
}

func scanSymbols(rows *sql.Rows) ([]domain.Symbol, error) {
	var symbols []domain.Symbol
	for rows.Next() {
		var s domain.Symbol
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.Currency, &s.Source); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}
	return symbols, nil
}
