package portfolio

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/database"
	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
)

var testDBCounter int

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	testDBCounter++
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:portfoliotest%d?mode=memory&cache=shared", testDBCounter),
		Profile: database.ProfileStandard,
		Name:    "test",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedSymbol(t *testing.T, db *database.DB, ticker string) int64 {
	t.Helper()
	repo := symbols.NewRepository(db.Conn(), zerolog.Nop())
	id, err := repo.Upsert(domain.Symbol{Symbol: ticker, Name: ticker, Currency: "EUR", Source: domain.SourceAlphavantage})
	require.NoError(t, err)
	return id
}

func TestCreateAndGetPortfolio(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	created, err := repo.Create(domain.Portfolio{UserID: "u1", Name: "Retirement", CreatedAt: "2020-01-01"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	got, found, err := repo.ByID(created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Retirement", got.Name)

	_, found, err = repo.ByID(9999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestForUserFiltersByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	_, err := repo.Create(domain.Portfolio{UserID: "u1", Name: "Mine", CreatedAt: "2020-01-01"})
	require.NoError(t, err)
	_, err = repo.Create(domain.Portfolio{UserID: "u2", Name: "Theirs", CreatedAt: "2020-01-01"})
	require.NoError(t, err)

	mine, err := repo.ForUser("u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Name)
}

func TestAppendAndReadPositionEvents(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	symbolID := seedSymbol(t, db, "SAP.DEX")

	p, err := repo.Create(domain.Portfolio{Name: "Test", CreatedAt: "2020-01-01"})
	require.NoError(t, err)

	_, err = repo.AppendEvent(domain.PositionChange{PortfolioID: p.ID, SymbolID: symbolID, Weight: 1000, ChangedAt: "2020-01-02"})
	require.NoError(t, err)
	_, err = repo.AppendEvent(domain.PositionChange{PortfolioID: p.ID, SymbolID: symbolID, Weight: 500, RemovedAt: "2020-01-05"})
	require.NoError(t, err)

	events, err := repo.PositionEvents(p.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "2020-01-02", events[0].ChangedAt)
	assert.Equal(t, "", events[0].RemovedAt)
	assert.False(t, events[0].IsRemoval())

	assert.Equal(t, "2020-01-05", events[1].RemovedAt)
	assert.True(t, events[1].IsRemoval())
}

func TestAppendEventRejectsBothMarkers(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	symbolID := seedSymbol(t, db, "SAP.DEX")

	p, err := repo.Create(domain.Portfolio{Name: "Test", CreatedAt: "2020-01-01"})
	require.NoError(t, err)

	// The schema enforces exactly one marker.
	_, err = repo.AppendEvent(domain.PositionChange{PortfolioID: p.ID, SymbolID: symbolID, Weight: 100, ChangedAt: "2020-01-02", RemovedAt: "2020-01-03"})
	assert.Error(t, err)

	_, err = repo.AppendEvent(domain.PositionChange{PortfolioID: p.ID, SymbolID: symbolID, Weight: 100})
	assert.Error(t, err)
}
