package cached

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pallas-ai/pallas/internal/cache"
	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/models"
	"github.com/pallas-ai/pallas/internal/services/resolver"
)

// countingMarket implements interfaces.MarketDataClient and records every
// upstream call it receives.
type countingMarket struct {
	mu            sync.Mutex
	quotes        map[string]*models.ResolvedAsset
	lookups       []string
	calendarCalls int
	events        []*models.EconomicEvent
}

func (m *countingMarket) LookupSymbol(_ context.Context, symbol string) (*models.ResolvedAsset, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, symbol)
	m.mu.Unlock()
	if asset, ok := m.quotes[symbol]; ok {
		copied := *asset
		return &copied, nil
	}
	return nil, fmt.Errorf("quote %s: %w", symbol, common.ErrNotFound)
}

func (m *countingMarket) FetchIndicator(context.Context, string, models.IndicatorConfig) (*models.IndicatorSeries, error) {
	return nil, common.ErrNotFound
}

func (m *countingMarket) GetEconomicCalendar(context.Context, time.Time, time.Time) ([]*models.EconomicEvent, error) {
	m.mu.Lock()
	m.calendarCalls++
	m.mu.Unlock()
	return m.events, nil
}

// countingCrypto implements interfaces.CryptoDataClient.
type countingCrypto struct {
	mu      sync.Mutex
	coins   map[string]*models.ResolvedAsset
	lookups []string
}

func (c *countingCrypto) LookupSymbol(_ context.Context, symbol string) (*models.ResolvedAsset, error) {
	c.mu.Lock()
	c.lookups = append(c.lookups, symbol)
	c.mu.Unlock()
	if asset, ok := c.coins[symbol]; ok {
		copied := *asset
		return &copied, nil
	}
	return nil, fmt.Errorf("coin %s: %w", symbol, common.ErrNotFound)
}

func (c *countingCrypto) Search(context.Context, string) ([]*models.SearchResult, error) {
	return nil, nil
}

func (c *countingCrypto) AssetByID(_ context.Context, id string) (*models.ResolvedAsset, error) {
	return nil, fmt.Errorf("coin id %s: %w", id, common.ErrNotFound)
}

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemoryCache(0)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLookupSymbol_SingleUpstreamCall(t *testing.T) {
	upstream := &countingMarket{quotes: map[string]*models.ResolvedAsset{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Class: models.AssetClassEquity, Price: 232.5, DataSource: "fmp"},
	}}
	market := NewMarketData(upstream, newTestCache(t), "fmp")

	first, err := market.LookupSymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	second, err := market.LookupSymbol(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, first.Symbol, second.Symbol)
	assert.Equal(t, first.Price, second.Price)
	assert.Len(t, upstream.lookups, 1)
}

func TestLookupSymbol_MissIsNotCached(t *testing.T) {
	upstream := &countingMarket{quotes: map[string]*models.ResolvedAsset{}}
	market := NewMarketData(upstream, newTestCache(t), "fmp")

	_, err := market.LookupSymbol(context.Background(), "NOPE")
	require.Error(t, err)
	_, err = market.LookupSymbol(context.Background(), "NOPE")
	require.Error(t, err)

	assert.Len(t, upstream.lookups, 2)
}

func TestGetEconomicCalendar_SingleUpstreamCall(t *testing.T) {
	actual := 3.1
	upstream := &countingMarket{events: []*models.EconomicEvent{
		{Event: "CPI YoY", Country: "US", Actual: &actual},
	}}
	market := NewMarketData(upstream, newTestCache(t), "fmp")

	from := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	to := from.Add(6 * 24 * time.Hour)

	first, err := market.GetEconomicCalendar(context.Background(), from, to)
	require.NoError(t, err)
	second, err := market.GetEconomicCalendar(context.Background(), from, to)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].Event, second[0].Event)
	assert.Equal(t, 1, upstream.calendarCalls)
}

func TestCryptoLookupSymbol_SingleUpstreamCall(t *testing.T) {
	upstream := &countingCrypto{coins: map[string]*models.ResolvedAsset{
		"KTA": {Symbol: "KTA", Name: "Keeta", Class: models.AssetClassCrypto, Price: 0.42, DataSource: "coingecko"},
	}}
	crypto := NewCryptoData(upstream, newTestCache(t), "coingecko")

	_, err := crypto.LookupSymbol(context.Background(), "KTA")
	require.NoError(t, err)
	asset, err := crypto.LookupSymbol(context.Background(), "KTA")
	require.NoError(t, err)

	assert.Equal(t, "KTA", asset.Symbol)
	assert.Len(t, upstream.lookups, 1)
}

// Repeated resolutions of the same candidate, conflict probes included,
// should reach each upstream once per cache window.
func TestResolve_RepeatedQuerySingleUpstreamLookup(t *testing.T) {
	marketUpstream := &countingMarket{quotes: map[string]*models.ResolvedAsset{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Class: models.AssetClassEquity, Price: 232.5, DataSource: "fmp"},
	}}
	cryptoUpstream := &countingCrypto{coins: map[string]*models.ResolvedAsset{}}

	c := newTestCache(t)
	r := resolver.New(
		NewMarketData(marketUpstream, c, "fmp"),
		NewCryptoData(cryptoUpstream, c, "coingecko"),
		common.NewSilentLogger(),
	)

	for i := 0; i < 2; i++ {
		assets, conflict, err := r.Resolve(context.Background(), []models.CandidateSymbol{{Text: "AAPL", Confidence: 1}})
		require.NoError(t, err)
		require.Nil(t, conflict)
		require.Len(t, assets, 1)
		assert.Equal(t, "AAPL", assets[0].Symbol)
	}

	assert.Len(t, marketUpstream.lookups, 1)
}
