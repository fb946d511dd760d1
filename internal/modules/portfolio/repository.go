// Package portfolio manages user portfolios and their append-only position
// change history. Edits never rewrite rows: every addition, weight change and
// removal is a new dated event.
package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Repository handles portfolio database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// Create stores a new portfolio and returns it with the id filled in.
func (r *Repository) Create(p domain.Portfolio) (domain.Portfolio, error) {
	result, err := r.db.Exec(
		"INSERT INTO portfolios (user_id, name, created_at) VALUES (?, ?, ?)",
		p.UserID, p.Name, p.CreatedAt,
	)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to read portfolio id: %w", err)
	}
	p.ID = id
	return p, nil
}

// ByID returns the portfolio with the given id.
func (r *Repository) ByID(id int64) (domain.Portfolio, bool, error) {
	var p domain.Portfolio
	err := r.db.QueryRow(
		"SELECT id, user_id, name, created_at FROM portfolios WHERE id = ?", id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.Portfolio{}, false, nil
	}
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("failed to query portfolio %d: %w", id, err)
	}
	return p, true, nil
}

// ForUser returns the portfolios owned by a user, oldest first.
func (r *Repository) ForUser(userID string) ([]domain.Portfolio, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, name, created_at FROM portfolios WHERE user_id = ? ORDER BY id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios for user: %w", err)
	}
	defer rows.Close()

	var portfolios []domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// PositionEvents returns the full change history of a portfolio in insertion
// order. Exactly one of ChangedAt/RemovedAt is set per event.
func (r *Repository) PositionEvents(portfolioID int64) ([]domain.PositionChange, error) {
	rows, err := r.db.Query(`
		SELECT id, portfolio_id, symbol_id, weight, COALESCE(changed_at, ''), COALESCE(removed_at, '')
		FROM portfolio_to_symbol WHERE portfolio_id = ? ORDER BY id`,
		portfolioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query position events for portfolio %d: %w", portfolioID, err)
	}
	defer rows.Close()

	var events []domain.PositionChange
	for rows.Next() {
		var e domain.PositionChange
		if err := rows.Scan(&e.ID, &e.PortfolioID, &e.SymbolID, &e.Weight, &e.ChangedAt, &e.RemovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// AppendEvent stores one position change. Empty day markers are stored as
// NULL so the exclusivity CHECK applies.
func (r *Repository) AppendEvent(e domain.PositionChange) (int64, error) {
	result, err := r.db.Exec(
		"INSERT INTO portfolio_to_symbol (portfolio_id, symbol_id, weight, changed_at, removed_at) VALUES (?, ?, ?, ?, ?)",
		e.PortfolioID, e.SymbolID, e.Weight, nullable(e.ChangedAt), nullable(e.RemovedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append position event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read position event id: %w", err)
	}
	return id, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
