// Package cached wraps the market and crypto data clients with the shared
// TTL cache so repeated lookups for the same symbol, including the
// resolver's cross-class probes, reach the upstream once per window.
package cached

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pallas-ai/pallas/internal/cache"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

const (
	// QuoteTTL bounds how stale a cached symbol lookup may be.
	QuoteTTL = 15 * time.Minute

	// CalendarTTL matches how rarely the macro schedule changes.
	CalendarTTL = time.Hour
)

func quoteKey(provider, symbol string) string {
	return fmt.Sprintf("quote:%s:%s", provider, strings.ToUpper(symbol))
}

func calendarKey(provider string, from, to time.Time) string {
	return fmt.Sprintf("calendar:%s:%s:%s", provider, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// MarketData fronts a MarketDataClient with the cache. Indicator fetches
// pass through untouched; the aggregator owns that cache layer.
type MarketData struct {
	client   interfaces.MarketDataClient
	cache    cache.Cache
	provider string
}

// NewMarketData wraps client. The provider name namespaces the cache keys.
func NewMarketData(client interfaces.MarketDataClient, c cache.Cache, provider string) *MarketData {
	return &MarketData{client: client, cache: c, provider: provider}
}

func (m *MarketData) LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error) {
	key := quoteKey(m.provider, symbol)

	var asset models.ResolvedAsset
	if err := m.cache.Get(ctx, key, &asset); err == nil {
		return &asset, nil
	}

	fresh, err := m.client.LookupSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	_ = m.cache.Set(ctx, key, fresh, QuoteTTL)
	return fresh, nil
}

func (m *MarketData) FetchIndicator(ctx context.Context, symbol string, cfg models.IndicatorConfig) (*models.IndicatorSeries, error) {
	return m.client.FetchIndicator(ctx, symbol, cfg)
}

func (m *MarketData) GetEconomicCalendar(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error) {
	key := calendarKey(m.provider, from, to)

	var events []*models.EconomicEvent
	if err := m.cache.Get(ctx, key, &events); err == nil {
		return events, nil
	}

	fresh, err := m.client.GetEconomicCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}
	_ = m.cache.Set(ctx, key, fresh, CalendarTTL)
	return fresh, nil
}

// CryptoData fronts a CryptoDataClient with the cache. Search and AssetByID
// stay uncached: search is the last resolver tier and its picks land in the
// lookup cache through the asset they resolve.
type CryptoData struct {
	client   interfaces.CryptoDataClient
	cache    cache.Cache
	provider string
}

// NewCryptoData wraps client. The provider name namespaces the cache keys.
func NewCryptoData(client interfaces.CryptoDataClient, c cache.Cache, provider string) *CryptoData {
	return &CryptoData{client: client, cache: c, provider: provider}
}

func (d *CryptoData) LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error) {
	key := quoteKey(d.provider, symbol)

	var asset models.ResolvedAsset
	if err := d.cache.Get(ctx, key, &asset); err == nil {
		return &asset, nil
	}

	fresh, err := d.client.LookupSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	_ = d.cache.Set(ctx, key, fresh, QuoteTTL)
	return fresh, nil
}

func (d *CryptoData) Search(ctx context.Context, query string) ([]*models.SearchResult, error) {
	return d.client.Search(ctx, query)
}

func (d *CryptoData) AssetByID(ctx context.Context, id string) (*models.ResolvedAsset, error) {
	return d.client.AssetByID(ctx, id)
}

var _ interfaces.MarketDataClient = (*MarketData)(nil)
var _ interfaces.CryptoDataClient = (*CryptoData)(nil)
