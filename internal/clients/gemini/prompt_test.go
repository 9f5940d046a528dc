package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pallas-ai/pallas/internal/models"
)

func sampleContext() *models.AggregatedContext {
	return &models.AggregatedContext{
		RequestID: "req-1",
		Query:     "What is the RSI for ETH?",
		Classification: models.QueryClassification{
			Categories:  []models.Category{models.CategoryCrypto},
			RiskContext: models.RiskContext{"volatility": "moves fast"},
		},
		Assets: []*models.AssetContext{
			{
				Asset: &models.ResolvedAsset{
					Symbol: "ETH", Name: "Ethereum", Class: models.AssetClassCrypto,
					Price: 3200.5, ChangePct: -1.8, MarketCap: 3.8e11,
				},
				Indicators: models.IndicatorSet{
					models.IndicatorRSI: &models.IndicatorSeries{
						Type: models.IndicatorRSI, Symbol: "ETH", Timeframe: "2hour", Period: 28,
						Points: []models.IndicatorPoint{{Date: "2026-08-31", Value: 72.4}},
					},
				},
				RSIReading: models.RSIOverbought,
			},
		},
	}
}

func TestBuildMarketPrompt_IncludesAssetAndIndicators(t *testing.T) {
	prompt := BuildMarketPrompt(sampleContext())

	assert.Contains(t, prompt, "What is the RSI for ETH?")
	assert.Contains(t, prompt, "Ethereum (ETH, CRYPTO)")
	assert.Contains(t, prompt, "RSI(28) @ 2hour")
	assert.Contains(t, prompt, "overbought")
	assert.Contains(t, prompt, "crypto")
}

func TestBuildMarketPrompt_OptionalSectionsOmitted(t *testing.T) {
	prompt := BuildMarketPrompt(sampleContext())
	assert.NotContains(t, prompt, "Broad market reference")
	assert.NotContains(t, prompt, "Upcoming economic events")
}

func TestBuildMarketPrompt_BellwetherAndCalendarSections(t *testing.T) {
	agg := sampleContext()
	agg.Bellwethers = []*models.BellwetherEntry{
		{Symbol: "SPY", Name: "S&P 500 ETF", Price: 560.2, ChangePct: 0.4, RSI: 55, RSIReading: models.RSINeutral},
	}

	prompt := BuildMarketPrompt(agg)
	assert.Contains(t, prompt, "Broad market reference")
	assert.Contains(t, prompt, "S&P 500 ETF")
	assert.Contains(t, prompt, "RSI 55.0 (neutral)")
}

func TestBuildDisambiguationMessage_ListsAllCandidates(t *testing.T) {
	msg := BuildDisambiguationMessage(&models.ConflictReport{
		Symbol: "VVV",
		Candidates: []*models.ResolvedAsset{
			{Symbol: "VVV", Name: "Valvoline Inc.", Class: models.AssetClassEquity, Price: 40.12},
			{Symbol: "VVV", Name: "Venice Token", Class: models.AssetClassCrypto, Price: 3.5},
		},
	})

	assert.Contains(t, msg, "Valvoline Inc.")
	assert.Contains(t, msg, "Venice Token")
	assert.True(t, strings.Contains(msg, "specify which one"))
}
