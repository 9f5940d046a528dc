package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSet(rsi float64) models.IndicatorSet {
	return models.IndicatorSet{
		models.IndicatorRSI: &models.IndicatorSeries{
			Type:      models.IndicatorRSI,
			Symbol:    "ETH",
			Timeframe: "2hour",
			Period:    28,
			Points:    []models.IndicatorPoint{{Date: "2026-08-31", Value: rsi, Timeframe: "2hour", Period: 28}},
		},
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSnapshot("ETH", sampleSet(62.1)))

	snap, err := store.GetSnapshot("ETH")
	require.NoError(t, err)
	assert.Equal(t, "ETH", snap.Symbol)
	require.Contains(t, snap.Indicators, models.IndicatorRSI)
	latest, ok := snap.Indicators[models.IndicatorRSI].Latest()
	require.True(t, ok)
	assert.Equal(t, 62.1, latest.Value)
}

func TestGetSnapshot_ReturnsMostRecent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSnapshot("ETH", sampleSet(40)))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.SaveSnapshot("ETH", sampleSet(80)))

	snap, err := store.GetSnapshot("ETH")
	require.NoError(t, err)
	latest, _ := snap.Indicators[models.IndicatorRSI].Latest()
	assert.Equal(t, 80.0, latest.Value)
}

func TestGetSnapshot_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSnapshot("MISSING")
	assert.True(t, common.IsNotFound(err))
}

func TestListSnapshots_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	cutoff := time.Now().Add(-time.Minute)

	require.NoError(t, store.SaveSnapshot("ETH", sampleSet(40)))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.SaveSnapshot("BTC", sampleSet(60)))

	snaps, err := store.ListSnapshots(cutoff)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "BTC", snaps[0].Symbol)
	assert.Equal(t, "ETH", snaps[1].Symbol)
}
