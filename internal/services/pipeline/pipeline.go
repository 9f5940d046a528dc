// Package pipeline orchestrates one query end to end: classification and
// extraction in parallel, then resolution, then per-asset indicator fetches
// alongside the optional bellwether and calendar sections, then assembly.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// Pipeline implements the Pipeline interface.
type Pipeline struct {
	classifier  interfaces.QueryClassifier
	extractor   interfaces.SymbolExtractor
	resolver    interfaces.AssetResolver
	aggregator  interfaces.IndicatorAggregator
	bellwethers interfaces.BellwetherService
	calendar    interfaces.MarketDataClient
	assembler   interfaces.ContextAssembler
	logger      *common.Logger
}

// Deps collects the pipeline's collaborators. Bellwethers and Calendar may
// be nil; their sections are then always absent.
type Deps struct {
	Classifier  interfaces.QueryClassifier
	Extractor   interfaces.SymbolExtractor
	Resolver    interfaces.AssetResolver
	Aggregator  interfaces.IndicatorAggregator
	Bellwethers interfaces.BellwetherService
	Calendar    interfaces.MarketDataClient
	Assembler   interfaces.ContextAssembler
	Logger      *common.Logger
}

// New wires the pipeline.
func New(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Pipeline{
		classifier:  deps.Classifier,
		extractor:   deps.Extractor,
		resolver:    deps.Resolver,
		aggregator:  deps.Aggregator,
		bellwethers: deps.Bellwethers,
		calendar:    deps.Calendar,
		assembler:   deps.Assembler,
		logger:      logger,
	}
}

// Answer runs the full pipeline for one raw query. Every failure along the
// way degrades the context instead of propagating, and the worst case is a
// minimal context carrying the query and its classification.
func (p *Pipeline) Answer(ctx context.Context, rawQuery string, opts interfaces.AnswerOptions) *models.AggregatedContext {
	requestID := uuid.New().String()
	started := time.Now()
	query := models.NewQuery(rawQuery)

	// Stage 1: classification and extraction have no data dependency.
	var (
		classification models.QueryClassification
		candidates     []models.CandidateSymbol
		wg             sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		classification = p.classifier.Classify(&query)
	}()
	go func() {
		defer wg.Done()
		candidates = p.extractor.Extract(&query)
	}()
	wg.Wait()

	// Stage 2: resolution. An ambiguity error still carries usable assets
	// and the conflict report; anything else degrades to no assets.
	assets, conflict, err := p.resolver.Resolve(ctx, candidates)
	if err != nil && !common.IsAmbiguous(err) {
		p.logger.Warn().Err(err).Str("request_id", requestID).Msg("resolution failed")
		assets = nil
	}

	// Stage 3: indicators per asset, bellwethers, and the calendar are all
	// independent.
	var (
		indicators  map[string]models.IndicatorSet
		bellwethers []*models.BellwetherEntry
		calendar    []*models.EconomicEvent
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		indicators = p.fetchAllIndicators(ctx, assets)
	}()
	go func() {
		defer wg.Done()
		if opts.EnableBellwether && p.bellwethers != nil {
			bellwethers = p.bellwethers.Snapshot(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		if opts.EnableMacro && p.calendar != nil {
			calendar = p.fetchCalendar(ctx, requestID)
		}
	}()
	wg.Wait()

	agg := p.assembler.Assemble(interfaces.AssembleInput{
		RequestID:      requestID,
		Query:          &query,
		Classification: classification,
		Assets:         assets,
		Indicators:     indicators,
		Conflict:       conflict,
		Bellwethers:    bellwethers,
		Calendar:       calendar,
	})

	p.logger.Info().
		Str("request_id", requestID).
		Int("assets", len(agg.Assets)).
		Bool("conflict", agg.Conflict != nil).
		Dur("elapsed", time.Since(started)).
		Msg("query answered")

	return agg
}

// fetchAllIndicators fans out per asset; a failed asset simply has no entry.
func (p *Pipeline) fetchAllIndicators(ctx context.Context, assets []*models.ResolvedAsset) map[string]models.IndicatorSet {
	if len(assets) == 0 {
		return nil
	}

	indicators := make(map[string]models.IndicatorSet, len(assets))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, asset := range assets {
		wg.Add(1)
		go func(asset *models.ResolvedAsset) {
			defer wg.Done()
			set, err := p.aggregator.FetchIndicators(ctx, asset)
			if err != nil || len(set) == 0 {
				return
			}
			mu.Lock()
			indicators[asset.Key()] = set
			mu.Unlock()
		}(asset)
	}
	wg.Wait()
	return indicators
}

func (p *Pipeline) fetchCalendar(ctx context.Context, requestID string) []*models.EconomicEvent {
	now := time.Now()
	events, err := p.calendar.GetEconomicCalendar(ctx, now.Add(-models.CalendarWindow), now.Add(models.CalendarWindow))
	if err != nil {
		p.logger.Debug().Err(err).Str("request_id", requestID).Msg("calendar fetch failed")
		return nil
	}
	return events
}

var _ interfaces.Pipeline = (*Pipeline)(nil)
