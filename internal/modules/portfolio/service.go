package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Validation errors returned by the service. Handlers map these to 4xx.
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrInvalidWeight     = errors.New("weight must be greater than zero")
	ErrInvalidDay        = errors.New("day must be formatted YYYY-MM-DD")
	ErrEmptyName         = errors.New("portfolio name must not be empty")
)

// SymbolResolver looks up catalog symbols by ticker.
// Satisfied by the symbols repository.
type SymbolResolver interface {
	BySymbol(symbol string) (domain.Symbol, bool, error)
}

// Service validates and applies portfolio edits.
type Service struct {
	repo    *Repository
	symbols SymbolResolver
	log     zerolog.Logger
}

// NewService creates a new portfolio service.
func NewService(repo *Repository, symbols SymbolResolver, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		symbols: symbols,
		log:     log.With().Str("service", "portfolio").Logger(),
	}
}

// Create stores a new, empty portfolio for the user.
func (s *Service) Create(userID, name string) (domain.Portfolio, error) {
	if name == "" {
		return domain.Portfolio{}, ErrEmptyName
	}
	p, err := s.repo.Create(domain.Portfolio{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().Format(domain.DayFormat),
	})
	if err != nil {
		return domain.Portfolio{}, err
	}
	s.log.Info().Int64("portfolio_id", p.ID).Str("name", name).Msg("portfolio created")
	return p, nil
}

// Get returns a portfolio by id.
func (s *Service) Get(id int64) (domain.Portfolio, error) {
	p, found, err := s.repo.ByID(id)
	if err != nil {
		return domain.Portfolio{}, err
	}
	if !found {
		return domain.Portfolio{}, ErrPortfolioNotFound
	}
	return p, nil
}

// ListForUser returns the user's portfolios.
func (s *Service) ListForUser(userID string) ([]domain.Portfolio, error) {
	return s.repo.ForUser(userID)
}

// AddPosition records a dated cash inflow into a symbol: weight EUR worth of
// the instrument entered the portfolio on the given day.
func (s *Service) AddPosition(portfolioID int64, ticker string, weight float64, day string) (domain.PositionChange, error) {
	sym, err := s.validateEdit(portfolioID, ticker, weight, day)
	if err != nil {
		return domain.PositionChange{}, err
	}

	event := domain.PositionChange{
		PortfolioID: portfolioID,
		SymbolID:    sym.ID,
		Weight:      weight,
		ChangedAt:   day,
	}
	return s.append(event)
}

// RemovePosition records a dated cash outflow: weight EUR worth of the
// instrument left the portfolio on the given day.
func (s *Service) RemovePosition(portfolioID int64, ticker string, weight float64, day string) (domain.PositionChange, error) {
	sym, err := s.validateEdit(portfolioID, ticker, weight, day)
	if err != nil {
		return domain.PositionChange{}, err
	}

	event := domain.PositionChange{
		PortfolioID: portfolioID,
		SymbolID:    sym.ID,
		Weight:      weight,
		RemovedAt:   day,
	}
	return s.append(event)
}

// History returns the portfolio's full event log.
func (s *Service) History(portfolioID int64) ([]domain.PositionChange, error) {
	if _, err := s.Get(portfolioID); err != nil {
		return nil, err
	}
	return s.repo.PositionEvents(portfolioID)
}

func (s *Service) validateEdit(portfolioID int64, ticker string, weight float64, day string) (domain.Symbol, error) {
	if weight <= 0 {
		return domain.Symbol{}, ErrInvalidWeight
	}
	if _, err := time.Parse(domain.DayFormat, day); err != nil {
		return domain.Symbol{}, ErrInvalidDay
	}
	if _, err := s.Get(portfolioID); err != nil {
		return domain.Symbol{}, err
	}

	sym, found, err := s.symbols.BySymbol(ticker)
	if err != nil {
		return domain.Symbol{}, fmt.Errorf("failed to resolve symbol %s: %w", ticker, err)
	}
	if !found {
		return domain.Symbol{}, ErrSymbolNotFound
	}
	return sym, nil
}

func (s *Service) append(event domain.PositionChange) (domain.PositionChange, error) {
	id, err := s.repo.AppendEvent(event)
	if err != nil {
		return domain.PositionChange{}, err
	}
	event.ID = id
	s.log.Info().
		Int64("portfolio_id", event.PortfolioID).
		Int64("symbol_id", event.SymbolID).
		Bool("removal", event.IsRemoval()).
		Str("day", event.EffectiveDay()).
		Msg("position event recorded")
	return event, nil
}
