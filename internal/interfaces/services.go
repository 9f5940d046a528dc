package interfaces

import (
	"context"

	"github.com/pallas-ai/pallas/internal/models"
)

// QueryClassifier tags a query with market categories and a risk context.
// Classification is total: it never fails, an unclassified query simply
// carries no categories.
type QueryClassifier interface {
	Classify(query *models.Query) models.QueryClassification
}

// SymbolExtractor pulls candidate asset mentions out of a query.
type SymbolExtractor interface {
	Extract(query *models.Query) []models.CandidateSymbol
}

// AssetResolver turns candidate mentions into priced assets. A cross-class
// symbol collision is reported rather than silently picked; resolution of the
// remaining candidates still proceeds.
type AssetResolver interface {
	Resolve(ctx context.Context, candidates []models.CandidateSymbol) ([]*models.ResolvedAsset, *models.ConflictReport, error)
}

// IndicatorAggregator fetches the standard indicator set for one asset,
// consulting the cache before the upstream. Individual indicator failures
// are dropped, not propagated.
type IndicatorAggregator interface {
	FetchIndicators(ctx context.Context, asset *models.ResolvedAsset) (models.IndicatorSet, error)
}

// BellwetherService snapshots the fixed broad-market reference set.
type BellwetherService interface {
	Snapshot(ctx context.Context) []*models.BellwetherEntry
}

// ContextAssembler merges the pipeline's intermediate products into the
// final aggregate.
type ContextAssembler interface {
	Assemble(in AssembleInput) *models.AggregatedContext
}

// AssembleInput carries everything the assembler merges. Any field other
// than Query may be zero.
type AssembleInput struct {
	RequestID      string
	Query          *models.Query
	Classification models.QueryClassification
	Assets         []*models.ResolvedAsset
	Indicators     map[string]models.IndicatorSet
	Conflict       *models.ConflictReport
	Bellwethers    []*models.BellwetherEntry
	Calendar       []*models.EconomicEvent
}

// Pipeline runs a raw query end to end. It degrades rather than fails: the
// returned context is always usable, in the worst case carrying only the
// query and its classification.
type Pipeline interface {
	Answer(ctx context.Context, rawQuery string, opts AnswerOptions) *models.AggregatedContext
}

// AnswerOptions toggles the optional context sections.
type AnswerOptions struct {
	EnableBellwether bool
	EnableMacro      bool
}
