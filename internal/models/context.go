package models

import "time"

// RSIReading is the directional annotation computed from the latest RSI value.
type RSIReading string

const (
	RSIOverbought RSIReading = "overbought"
	RSIOversold   RSIReading = "oversold"
	RSINeutral    RSIReading = "neutral"
)

// RSIReadingFor classifies an RSI value against the standard thresholds.
func RSIReadingFor(value float64) RSIReading {
	switch {
	case value > 70:
		return RSIOverbought
	case value < 30:
		return RSIOversold
	default:
		return RSINeutral
	}
}

// AssetContext pairs a resolved asset with whatever indicator data was
// obtainable for it. Indicators may be empty: partial data beats no data.
type AssetContext struct {
	Asset      *ResolvedAsset `json:"asset"`
	Indicators IndicatorSet   `json:"indicators,omitempty"`
	RSIReading RSIReading     `json:"rsi_reading,omitempty"`
}

// AggregatedContext is the terminal artifact of one pipeline run: everything
// the narrative generator needs, with optional sections simply absent when
// their sources were unavailable. Owned exclusively by the caller that
// requested it; never shared or mutated after assembly.
type AggregatedContext struct {
	RequestID      string              `json:"request_id"`
	Query          string              `json:"query"`
	Classification QueryClassification `json:"classification"`
	Assets         []*AssetContext     `json:"assets,omitempty"`
	Conflict       *ConflictReport     `json:"conflict,omitempty"`
	Bellwethers    []*BellwetherEntry  `json:"bellwethers,omitempty"`
	Calendar       []*EconomicEvent    `json:"calendar,omitempty"`
	AssembledAt    time.Time           `json:"assembled_at"`
}

// RequiresDisambiguation reports whether the context signals a symbol
// collision the end user must resolve.
func (c *AggregatedContext) RequiresDisambiguation() bool {
	return c.Conflict != nil && len(c.Conflict.Candidates) > 1
}
