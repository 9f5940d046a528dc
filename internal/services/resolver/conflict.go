package resolver

import (
	"context"
	"strings"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/models"
)

// detectConflict probes the opposite asset class for each resolved symbol.
// If the same letters name a materially different asset in the other market
// the resolver must not pick a winner; all candidates are reported and the
// end user chooses. The first collision found is the one reported.
func (r *Resolver) detectConflict(ctx context.Context, assets []*models.ResolvedAsset) *models.ConflictReport {
	for _, asset := range assets {
		other := r.probeOppositeClass(ctx, asset)
		if other == nil {
			continue
		}
		if sameAsset(asset, other) {
			continue
		}
		r.logger.Info().
			Str("symbol", asset.Symbol).
			Str("first", asset.Name).
			Str("second", other.Name).
			Msg("cross-class symbol collision")
		return &models.ConflictReport{
			Symbol:     asset.Symbol,
			Candidates: []*models.ResolvedAsset{asset, other},
		}
	}
	return nil
}

func (r *Resolver) probeOppositeClass(ctx context.Context, asset *models.ResolvedAsset) *models.ResolvedAsset {
	var (
		other *models.ResolvedAsset
		err   error
	)
	switch asset.Class {
	case models.AssetClassEquity:
		other, err = r.crypto.LookupSymbol(ctx, NormalizeCryptoSymbol(asset.Symbol))
	case models.AssetClassCrypto:
		other, err = r.market.LookupSymbol(ctx, asset.Symbol)
	}
	if err != nil {
		if !common.IsNotFound(err) {
			r.logger.Debug().Err(err).Str("symbol", asset.Symbol).Msg("conflict probe failed")
		}
		return nil
	}
	return other
}

// sameAsset guards against a provider echoing the same instrument back under
// the other class: identical names mean no real collision.
func sameAsset(a, b *models.ResolvedAsset) bool {
	return strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name))
}
