package models

// IndicatorType names a technical indicator.
type IndicatorType string

const (
	IndicatorRSI  IndicatorType = "RSI"
	IndicatorEMA  IndicatorType = "EMA"
	IndicatorSMA  IndicatorType = "SMA"
	IndicatorDEMA IndicatorType = "DEMA"
)

// IndicatorConfig fixes the timeframe and period an indicator is fetched at.
type IndicatorConfig struct {
	Type      IndicatorType `json:"type"`
	Timeframe string        `json:"timeframe"`
	Period    int           `json:"period"`
}

// DefaultIndicatorConfigs is the fixed indicator set fetched per asset.
// Static, versionable configuration consumed, not owned, by the aggregator.
var DefaultIndicatorConfigs = []IndicatorConfig{
	{Type: IndicatorRSI, Timeframe: "2hour", Period: 28},
	{Type: IndicatorEMA, Timeframe: "4hour", Period: 50},
	{Type: IndicatorDEMA, Timeframe: "4hour", Period: 20},
	{Type: IndicatorSMA, Timeframe: "4hour", Period: 200},
}

// IndicatorPoint is one dated indicator value, carrying the timeframe and
// period metadata it was computed at. Date keeps the provider's own format.
type IndicatorPoint struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	Timeframe string  `json:"timeframe"`
	Period    int     `json:"period"`
}

// IndicatorSeries is the ordered sequence of points (newest first, capped)
// for one (asset, indicator type) pair. A missing series is simply absent,
// never zero-filled.
type IndicatorSeries struct {
	Type      IndicatorType    `json:"type"`
	Symbol    string           `json:"symbol"`
	Timeframe string           `json:"timeframe"`
	Period    int              `json:"period"`
	Points    []IndicatorPoint `json:"points"`
}

// Latest returns the most recent point, or false when the series is empty.
func (s *IndicatorSeries) Latest() (IndicatorPoint, bool) {
	if s == nil || len(s.Points) == 0 {
		return IndicatorPoint{}, false
	}
	return s.Points[0], true
}

// IndicatorSet maps indicator type to its series for one asset. Failed or
// empty indicators are omitted from the map.
type IndicatorSet map[IndicatorType]*IndicatorSeries
