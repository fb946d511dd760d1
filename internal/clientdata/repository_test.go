package clientdata

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalalsunil1986/portfoliomgr/internal/database"
)

var testDBCounter int

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	testDBCounter++
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:clientdata%d?mode=memory&cache=shared", testDBCounter),
		Profile: database.ProfileCache,
		Name:    "clientdata-test",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.Conn())
}

type payload struct {
	Symbol string
	Closes []float64
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := newTestRepo(t)

	in := payload{Symbol: "IVV", Closes: []float64{50, 55}}
	require.NoError(t, repo.Store("alphavantage_daily", "IVV", in, time.Hour))

	var out payload
	ok, err := repo.GetIfFresh("alphavantage_daily", "IVV", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestGetIfFreshMissesOnAbsentKey(t *testing.T) {
	repo := newTestRepo(t)

	var out payload
	ok, err := repo.GetIfFresh("alphavantage_daily", "MSFT", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredEntryStaysAvailableViaGet(t *testing.T) {
	repo := newTestRepo(t)

	in := payload{Symbol: "IVV", Closes: []float64{50}}
	require.NoError(t, repo.Store("alphavantage_daily", "IVV", in, -time.Minute))

	var out payload
	ok, err := repo.GetIfFresh("alphavantage_daily", "IVV", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Get("alphavantage_daily", "IVV", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Store("alphavantage_daily", "stale", payload{}, -time.Minute))
	require.NoError(t, repo.Store("alphavantage_daily", "fresh", payload{}, time.Hour))
	require.NoError(t, repo.Store("alphavantage_fx", "USD", payload{}, -time.Minute))

	deleted, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted["alphavantage_daily"])
	assert.Equal(t, int64(1), deleted["alphavantage_fx"])
	assert.Equal(t, int64(0), deleted["alphavantage_intraday"])

	var out payload
	ok, err := repo.Get("alphavantage_daily", "fresh", &out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInvalidTableRejected(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Store("users; DROP TABLE users", "k", payload{}, time.Hour)
	assert.Error(t, err)
}
