// Package indicators fetches the fixed technical indicator set for resolved
// assets, caching results and degrading per indicator on failure.
package indicators

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pallas-ai/pallas/internal/cache"
	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

const (
	// CacheTTL bounds how stale a cached series may be.
	CacheTTL = time.Hour

	// MaxPoints caps how much history travels downstream.
	MaxPoints = 12
)

// Aggregator implements the IndicatorAggregator interface.
type Aggregator struct {
	market  interfaces.MarketDataClient
	cache   cache.Cache
	store   interfaces.SnapshotStore
	configs []models.IndicatorConfig
	logger  *common.Logger
}

// Option configures the aggregator.
type Option func(*Aggregator)

// WithConfigs overrides the fixed indicator configuration list.
func WithConfigs(configs []models.IndicatorConfig) Option {
	return func(a *Aggregator) {
		a.configs = configs
	}
}

// WithSnapshotStore enables persisting each successful fetch.
func WithSnapshotStore(store interfaces.SnapshotStore) Option {
	return func(a *Aggregator) {
		a.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an aggregator over the market data provider and cache.
func New(market interfaces.MarketDataClient, c cache.Cache, opts ...Option) *Aggregator {
	a := &Aggregator{
		market:  market,
		cache:   c,
		configs: models.DefaultIndicatorConfigs,
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// cacheKey fully qualifies one cached series so concurrent writers never
// race on the same logical value.
func cacheKey(cfg models.IndicatorConfig, symbol string) string {
	return fmt.Sprintf("indicator:%s:%s:%s:%d", cfg.Type, symbol, cfg.Timeframe, cfg.Period)
}

// FetchIndicators retrieves every configured indicator for the asset
// concurrently. A failed or empty indicator is simply absent from the
// returned set; only an unusable asset fails the call outright.
func (a *Aggregator) FetchIndicators(ctx context.Context, asset *models.ResolvedAsset) (models.IndicatorSet, error) {
	if asset == nil || asset.Symbol == "" {
		return nil, fmt.Errorf("indicator fetch: %w", common.ErrInvalidQuery)
	}
	symbol := asset.Symbol

	type fetched struct {
		cfg    models.IndicatorConfig
		series *models.IndicatorSeries
	}

	results := make([]fetched, len(a.configs))
	var wg sync.WaitGroup
	for i, cfg := range a.configs {
		wg.Add(1)
		go func(idx int, cfg models.IndicatorConfig) {
			defer wg.Done()
			series, err := a.fetchOne(ctx, symbol, cfg)
			if err != nil {
				a.logger.Debug().Err(err).
					Str("symbol", symbol).
					Str("indicator", string(cfg.Type)).
					Msg("indicator fetch failed")
				return
			}
			results[idx] = fetched{cfg: cfg, series: series}
		}(i, cfg)
	}
	wg.Wait()

	set := make(models.IndicatorSet)
	for _, res := range results {
		if res.series != nil && len(res.series.Points) > 0 {
			set[res.cfg.Type] = res.series
		}
	}

	if a.store != nil && len(set) > 0 {
		if err := a.store.SaveSnapshot(symbol, set); err != nil {
			a.logger.Warn().Err(err).Str("symbol", symbol).Msg("snapshot save failed")
		}
	}

	return set, nil
}

// fetchOne consults the cache before the upstream, attaches timeframe and
// period metadata, and truncates to the presentation cap.
func (a *Aggregator) fetchOne(ctx context.Context, symbol string, cfg models.IndicatorConfig) (*models.IndicatorSeries, error) {
	key := cacheKey(cfg, symbol)

	var cached models.IndicatorSeries
	if err := a.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !cache.IsMiss(err) {
		a.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	series, err := a.market.FetchIndicator(ctx, symbol, cfg)
	if err != nil {
		return nil, err
	}
	if series == nil || len(series.Points) == 0 {
		return nil, fmt.Errorf("indicator %s for %s: %w", cfg.Type, symbol, common.ErrNotFound)
	}

	if len(series.Points) > MaxPoints {
		series.Points = series.Points[:MaxPoints]
	}
	for i := range series.Points {
		series.Points[i].Timeframe = cfg.Timeframe
		series.Points[i].Period = cfg.Period
	}

	if err := a.cache.Set(ctx, key, series, CacheTTL); err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return series, nil
}

var _ interfaces.IndicatorAggregator = (*Aggregator)(nil)
