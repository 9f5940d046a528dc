// Package resolver turns candidate symbol mentions into priced assets by
// running each candidate through an ordered chain of lookup strategies.
package resolver

import (
	"context"
	"strings"
	"sync"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// cryptoPathLimit bounds how many candidates may fan out to the crypto
// provider; later candidates only try the equity path.
const cryptoPathLimit = 2

// strategy is one lookup tier. A nil asset with a nil error means the tier
// had nothing; the chain moves on.
type strategy struct {
	name string
	run  func(ctx context.Context, candidate string) (*models.ResolvedAsset, error)
}

// Resolver implements the AssetResolver interface.
type Resolver struct {
	market interfaces.MarketDataClient
	crypto interfaces.CryptoDataClient
	logger *common.Logger
}

// New creates a resolver over the two providers.
func New(market interfaces.MarketDataClient, crypto interfaces.CryptoDataClient, logger *common.Logger) *Resolver {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Resolver{market: market, crypto: crypto, logger: logger}
}

// Resolve runs every candidate through its strategy chain concurrently,
// dedupes by (symbol, class), and probes for cross-class collisions. A
// candidate that resolves nothing is dropped; the error return is reserved
// for a wrapped AmbiguousAssetError when a collision is found.
func (r *Resolver) Resolve(ctx context.Context, candidates []models.CandidateSymbol) ([]*models.ResolvedAsset, *models.ConflictReport, error) {
	if len(candidates) > 4 {
		candidates = candidates[:4]
	}

	results := make([]*models.ResolvedAsset, len(candidates))
	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(idx int, c models.CandidateSymbol) {
			defer wg.Done()
			results[idx] = r.resolveOne(ctx, c.Text, idx < cryptoPathLimit)
		}(i, cand)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var assets []*models.ResolvedAsset
	for _, asset := range results {
		if asset == nil || seen[asset.Key()] {
			continue
		}
		seen[asset.Key()] = true
		assets = append(assets, asset)
	}

	conflict := r.detectConflict(ctx, assets)
	if conflict != nil {
		return assets, conflict, &common.AmbiguousAssetError{Symbol: conflict.Symbol}
	}
	return assets, nil, nil
}

// resolveOne runs the strategy chain for a single candidate; first non-empty
// result wins, every failure just advances the chain.
func (r *Resolver) resolveOne(ctx context.Context, candidate string, cryptoEligible bool) *models.ResolvedAsset {
	chain := []strategy{
		{name: "equity_lookup", run: r.equityLookup},
	}
	if cryptoEligible {
		chain = append(chain,
			strategy{name: "crypto_lookup", run: r.cryptoLookup},
			strategy{name: "crypto_search", run: r.cryptoSearch},
		)
	}

	for _, tier := range chain {
		asset, err := tier.run(ctx, candidate)
		if err != nil {
			r.logger.Debug().Err(err).
				Str("candidate", candidate).
				Str("tier", tier.name).
				Msg("lookup tier failed")
			continue
		}
		if asset != nil {
			return asset
		}
	}
	return nil
}

func (r *Resolver) equityLookup(ctx context.Context, candidate string) (*models.ResolvedAsset, error) {
	asset, err := r.market.LookupSymbol(ctx, candidate)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return asset, nil
}

func (r *Resolver) cryptoLookup(ctx context.Context, candidate string) (*models.ResolvedAsset, error) {
	asset, err := r.crypto.LookupSymbol(ctx, NormalizeCryptoSymbol(candidate))
	if err != nil {
		if common.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return asset, nil
}

// cryptoSearch is the last tier: free-text search preferring an exact
// case-insensitive symbol match, otherwise the top-ranked result.
func (r *Resolver) cryptoSearch(ctx context.Context, candidate string) (*models.ResolvedAsset, error) {
	normalized := NormalizeCryptoSymbol(candidate)
	results, err := r.crypto.Search(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	pick := results[0]
	for _, res := range results {
		if strings.EqualFold(res.Symbol, normalized) {
			pick = res
			break
		}
	}

	asset, err := r.crypto.AssetByID(ctx, pick.ID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return asset, nil
}

// NormalizeCryptoSymbol strips a trailing quote-currency suffix so pair
// symbols match the crypto provider's bare form: KTAUSD becomes KTA,
// BTCUSDT becomes BTC. Symbols too short to carry a suffix pass through.
func NormalizeCryptoSymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, "USDT") && len(upper) > 4 {
		return symbol[:len(symbol)-4]
	}
	if strings.HasSuffix(upper, "USD") && len(upper) > 3 {
		return symbol[:len(symbol)-3]
	}
	return symbol
}

var _ interfaces.AssetResolver = (*Resolver)(nil)
