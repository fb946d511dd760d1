package portfolio

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
)

func newTestService(t *testing.T) (*Service, *symbols.Repository) {
	t.Helper()
	db := newTestDB(t)
	symbolRepo := symbols.NewRepository(db.Conn(), zerolog.Nop())
	repo := NewRepository(db.Conn(), zerolog.Nop())
	return NewService(repo, symbolRepo, zerolog.Nop()), symbolRepo
}

func TestCreateValidatesName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create("u1", "")
	assert.ErrorIs(t, err, ErrEmptyName)

	p, err := svc.Create("u1", "Retirement")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.NotEmpty(t, p.CreatedAt)
}

func TestAddPositionRecordsChangeEvent(t *testing.T) {
	svc, symbolRepo := newTestService(t)
	_, err := symbolRepo.Upsert(domain.Symbol{Symbol: "SAP.DEX", Name: "SAP SE", Currency: "EUR", Source: domain.SourceAlphavantage})
	require.NoError(t, err)

	p, err := svc.Create("u1", "Test")
	require.NoError(t, err)

	event, err := svc.AddPosition(p.ID, "SAP.DEX", 1000, "2020-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02", event.ChangedAt)
	assert.False(t, event.IsRemoval())

	history, err := svc.History(p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRemovePositionRecordsRemovalEvent(t *testing.T) {
	svc, symbolRepo := newTestService(t)
	_, err := symbolRepo.Upsert(domain.Symbol{Symbol: "SAP.DEX", Name: "SAP SE", Currency: "EUR", Source: domain.SourceAlphavantage})
	require.NoError(t, err)

	p, err := svc.Create("u1", "Test")
	require.NoError(t, err)

	event, err := svc.RemovePosition(p.ID, "SAP.DEX", 500, "2020-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-05", event.RemovedAt)
	assert.True(t, event.IsRemoval())
}

func TestPositionEditValidation(t *testing.T) {
	svc, symbolRepo := newTestService(t)
	_, err := symbolRepo.Upsert(domain.Symbol{Symbol: "SAP.DEX", Name: "SAP SE", Currency: "EUR", Source: domain.SourceAlphavantage})
	require.NoError(t, err)

	p, err := svc.Create("u1", "Test")
	require.NoError(t, err)

	_, err = svc.AddPosition(p.ID, "SAP.DEX", 0, "2020-01-02")
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = svc.AddPosition(p.ID, "SAP.DEX", -100, "2020-01-02")
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = svc.AddPosition(p.ID, "SAP.DEX", 100, "02.01.2020")
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = svc.AddPosition(p.ID, "UNKNOWN", 100, "2020-01-02")
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = svc.AddPosition(9999, "SAP.DEX", 100, "2020-01-02")
	assert.ErrorIs(t, err, ErrPortfolioNotFound)
}

func TestHistoryRequiresExistingPortfolio(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.History(42)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)
}
