// Package assembler merges the pipeline's intermediate products into the
// final aggregated context the narrative consumer receives.
package assembler

import (
	"time"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// Assembler implements the ContextAssembler interface.
type Assembler struct {
	logger *common.Logger
	now    func() time.Time
}

// New creates an assembler.
func New(logger *common.Logger) *Assembler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Assembler{logger: logger, now: time.Now}
}

// Assemble builds the aggregated context. Every resolved asset is included
// even with zero indicator series; optional sections stay absent when their
// sources produced nothing. Any internal panic degrades to a minimal
// context carrying at least the query and classification, so the consumer
// always receives a usable artifact.
func (a *Assembler) Assemble(in interfaces.AssembleInput) (agg *models.AggregatedContext) {
	agg = &models.AggregatedContext{
		RequestID:      in.RequestID,
		Classification: in.Classification,
		AssembledAt:    a.now(),
	}
	if in.Query != nil {
		agg.Query = in.Query.Raw
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("assembly degraded to minimal context")
			agg.Assets = nil
			agg.Conflict = nil
			agg.Bellwethers = nil
			agg.Calendar = nil
		}
	}()

	for _, asset := range in.Assets {
		if asset == nil {
			continue
		}
		ac := &models.AssetContext{Asset: asset}
		if set, ok := in.Indicators[asset.Key()]; ok && len(set) > 0 {
			ac.Indicators = set
			ac.RSIReading = rsiReading(set)
		}
		agg.Assets = append(agg.Assets, ac)
	}

	if in.Conflict != nil && len(in.Conflict.Candidates) > 0 {
		agg.Conflict = in.Conflict
	}
	if len(in.Bellwethers) > 0 {
		agg.Bellwethers = in.Bellwethers
	}
	if len(in.Calendar) > 0 {
		agg.Calendar = in.Calendar
	}

	return agg
}

// rsiReading annotates the latest RSI value once at assembly time so the
// downstream consumer never re-derives thresholds.
func rsiReading(set models.IndicatorSet) models.RSIReading {
	series, ok := set[models.IndicatorRSI]
	if !ok {
		return ""
	}
	latest, ok := series.Latest()
	if !ok {
		return ""
	}
	return models.RSIReadingFor(latest.Value)
}

var _ interfaces.ContextAssembler = (*Assembler)(nil)
