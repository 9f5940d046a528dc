package interfaces

import (
	"context"
	"time"

	"github.com/pallas-ai/pallas/internal/models"
)

// MarketDataClient provides quotes, technical indicators, and macro calendar
// data for exchange-listed instruments.
type MarketDataClient interface {
	// LookupSymbol resolves a ticker to a quote. Returns common.ErrNotFound
	// wrapped when the upstream knows nothing about the symbol.
	LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error)

	// FetchIndicator retrieves a technical indicator series for a symbol.
	FetchIndicator(ctx context.Context, symbol string, cfg models.IndicatorConfig) (*models.IndicatorSeries, error)

	// GetEconomicCalendar lists scheduled macro releases in [from, to].
	GetEconomicCalendar(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error)
}

// CryptoDataClient resolves crypto assets by symbol or free-text search.
type CryptoDataClient interface {
	// LookupSymbol resolves a crypto ticker (no quote-currency suffix) to a
	// priced asset. Returns common.ErrNotFound wrapped when unknown.
	LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error)

	// Search performs a free-text search ranked by relevance.
	Search(ctx context.Context, query string) ([]*models.SearchResult, error)

	// AssetByID fetches a priced asset for a provider-native identifier
	// previously obtained from Search.
	AssetByID(ctx context.Context, id string) (*models.ResolvedAsset, error)
}

// NarrativeClient turns an assembled context into prose for the end user.
type NarrativeClient interface {
	GenerateNarrative(ctx context.Context, agg *models.AggregatedContext) (string, error)
}
