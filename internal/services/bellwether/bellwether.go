// Package bellwether snapshots a fixed set of broad-market reference
// instruments so every narrative carries market-wide framing.
package bellwether

import (
	"context"
	"sync"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// Service implements the BellwetherService interface. Quotes come from the
// market provider; RSI readings come from previously persisted snapshots and
// are optional.
type Service struct {
	market interfaces.MarketDataClient
	store  interfaces.SnapshotStore
	assets []models.BellwetherAsset
	logger *common.Logger
}

// New creates the service over the market provider and an optional snapshot
// store.
func New(market interfaces.MarketDataClient, store interfaces.SnapshotStore, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		market: market,
		store:  store,
		assets: models.DefaultBellwethers,
		logger: logger,
	}
}

// Snapshot fetches all reference instruments concurrently. An instrument
// whose quote fails is omitted; a missing RSI snapshot leaves the entry's
// RSI fields empty. Never returns an error: the section is optional.
func (s *Service) Snapshot(ctx context.Context) []*models.BellwetherEntry {
	results := make([]*models.BellwetherEntry, len(s.assets))
	var wg sync.WaitGroup
	for i, bw := range s.assets {
		wg.Add(1)
		go func(idx int, bw models.BellwetherAsset) {
			defer wg.Done()
			results[idx] = s.snapshotOne(ctx, bw)
		}(i, bw)
	}
	wg.Wait()

	entries := make([]*models.BellwetherEntry, 0, len(results))
	for _, entry := range results {
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (s *Service) snapshotOne(ctx context.Context, bw models.BellwetherAsset) *models.BellwetherEntry {
	quote, err := s.market.LookupSymbol(ctx, bw.Symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", bw.Symbol).Msg("bellwether quote failed")
		return nil
	}

	entry := &models.BellwetherEntry{
		Symbol:    bw.Symbol,
		Name:      bw.Name,
		Price:     quote.Price,
		ChangePct: quote.ChangePct,
	}

	if s.store != nil {
		if snap, err := s.store.GetSnapshot(bw.Symbol); err == nil {
			if series, ok := snap.Indicators[models.IndicatorRSI]; ok {
				if latest, ok := series.Latest(); ok {
					entry.RSI = latest.Value
					entry.RSIReading = models.RSIReadingFor(latest.Value)
				}
			}
		}
	}

	return entry
}

var _ interfaces.BellwetherService = (*Service)(nil)
