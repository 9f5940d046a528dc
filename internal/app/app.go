// Package app wires configuration, clients, storage, and services into one
// application container.
package app

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/pallas-ai/pallas/internal/cache"
	"github.com/pallas-ai/pallas/internal/clients/cached"
	"github.com/pallas-ai/pallas/internal/clients/coingecko"
	"github.com/pallas-ai/pallas/internal/clients/fmp"
	"github.com/pallas-ai/pallas/internal/clients/gemini"
	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/services/assembler"
	"github.com/pallas-ai/pallas/internal/services/bellwether"
	"github.com/pallas-ai/pallas/internal/services/classifier"
	"github.com/pallas-ai/pallas/internal/services/extractor"
	"github.com/pallas-ai/pallas/internal/services/indicators"
	"github.com/pallas-ai/pallas/internal/services/pipeline"
	"github.com/pallas-ai/pallas/internal/services/resolver"
	"github.com/pallas-ai/pallas/internal/storage/badger"
)

// App holds every wired component for the lifetime of the process.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Cache     cache.Cache
	Store     interfaces.SnapshotStore
	Market    interfaces.MarketDataClient
	Crypto    interfaces.CryptoDataClient
	Narrative interfaces.NarrativeClient
	Pipeline  interfaces.Pipeline
}

// NewApp loads configuration and wires the full stack. A missing Gemini key
// leaves Narrative nil; the server then serves raw contexts only.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := common.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(cfg.Logging.Level)

	c, err := newCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewStore(cfg.Storage.Snapshot.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	// Lookup and calendar traffic goes through the shared cache so the
	// resolver's repeat and cross-class lookups reach upstream once.
	market := cached.NewMarketData(fmp.NewClient(cfg.Clients.FMP.APIKey,
		fmp.WithBaseURL(cfg.Clients.FMP.BaseURL),
		fmp.WithLogger(logger),
		fmp.WithTimeout(cfg.Clients.FMP.GetTimeout()),
		fmp.WithRateLimit(cfg.Clients.FMP.RateLimit),
	), c, "fmp")
	crypto := cached.NewCryptoData(coingecko.NewClient(cfg.Clients.CoinGecko.APIKey,
		coingecko.WithBaseURL(cfg.Clients.CoinGecko.BaseURL),
		coingecko.WithLogger(logger),
		coingecko.WithTimeout(cfg.Clients.CoinGecko.GetTimeout()),
		coingecko.WithRateLimit(cfg.Clients.CoinGecko.RateLimit),
	), c, "coingecko")

	var narrative interfaces.NarrativeClient
	if cfg.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.Clients.Gemini.APIKey,
			gemini.WithModel(cfg.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create narrative client: %w", err)
		}
		narrative = client
	} else {
		logger.Warn().Msg("no Gemini API key configured, narrative generation disabled")
	}

	p := pipeline.New(pipeline.Deps{
		Classifier: classifier.New(logger),
		Extractor:  extractor.New(logger),
		Resolver:   resolver.New(market, crypto, logger),
		Aggregator: indicators.New(market, c,
			indicators.WithSnapshotStore(store),
			indicators.WithLogger(logger),
		),
		Bellwethers: bellwether.New(market, store, logger),
		Calendar:    market,
		Assembler:   assembler.New(logger),
		Logger:      logger,
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		Cache:     c,
		Store:     store,
		Market:    market,
		Crypto:    crypto,
		Narrative: narrative,
		Pipeline:  p,
	}, nil
}

func newCache(cfg *common.Config, logger *common.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis cache: %w", err)
		}
		logger.Info().Str("addr", cfg.Cache.Redis.Addr).Msg("using redis cache")
		return c, nil
	case "", "memory":
		return cache.NewMemoryCache(0), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Close releases the app's resources.
func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("cache close failed")
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("snapshot store close failed")
	}
}
