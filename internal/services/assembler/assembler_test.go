package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

func rsiSet(value float64) models.IndicatorSet {
	return models.IndicatorSet{
		models.IndicatorRSI: &models.IndicatorSeries{
			Type:      models.IndicatorRSI,
			Symbol:    "ETH",
			Timeframe: "2hour",
			Period:    28,
			Points: []models.IndicatorPoint{
				{Date: "2026-08-31 14:00:00", Value: value, Timeframe: "2hour", Period: 28},
				{Date: "2026-08-31 12:00:00", Value: 55, Timeframe: "2hour", Period: 28},
			},
		},
	}
}

func cryptoAsset(symbol string) *models.ResolvedAsset {
	return &models.ResolvedAsset{Symbol: symbol, Name: symbol, Class: models.AssetClassCrypto, Price: 10}
}

func TestAssemble_AnnotatesRSI(t *testing.T) {
	tests := []struct {
		value   float64
		reading models.RSIReading
	}{
		{value: 75.2, reading: models.RSIOverbought},
		{value: 22.8, reading: models.RSIOversold},
		{value: 50.0, reading: models.RSINeutral},
	}

	for _, tt := range tests {
		asset := cryptoAsset("ETH")
		query := models.NewQuery("What is the RSI for ETH?")
		agg := New(nil).Assemble(interfaces.AssembleInput{
			RequestID:  "req-1",
			Query:      &query,
			Assets:     []*models.ResolvedAsset{asset},
			Indicators: map[string]models.IndicatorSet{asset.Key(): rsiSet(tt.value)},
		})

		require.Len(t, agg.Assets, 1)
		assert.Equal(t, tt.reading, agg.Assets[0].RSIReading, "rsi %.1f", tt.value)
	}
}

func TestAssemble_AssetWithoutIndicatorsIsKept(t *testing.T) {
	asset := cryptoAsset("KTA")
	query := models.NewQuery("KTA price")
	agg := New(nil).Assemble(interfaces.AssembleInput{
		Query:  &query,
		Assets: []*models.ResolvedAsset{asset},
	})

	require.Len(t, agg.Assets, 1)
	assert.Empty(t, agg.Assets[0].Indicators)
	assert.Empty(t, agg.Assets[0].RSIReading)
}

func TestAssemble_OptionalSectionsAbsentNotNullPlaceholders(t *testing.T) {
	query := models.NewQuery("market overview")
	agg := New(nil).Assemble(interfaces.AssembleInput{Query: &query})

	assert.Nil(t, agg.Assets)
	assert.Nil(t, agg.Conflict)
	assert.Nil(t, agg.Bellwethers)
	assert.Nil(t, agg.Calendar)
	assert.Equal(t, "market overview", agg.Query)
}

func TestAssemble_ConflictSignalsDisambiguation(t *testing.T) {
	query := models.NewQuery("VVV analysis")
	conflict := &models.ConflictReport{
		Symbol: "VVV",
		Candidates: []*models.ResolvedAsset{
			{Symbol: "VVV", Name: "Valvoline Inc.", Class: models.AssetClassEquity},
			{Symbol: "VVV", Name: "Venice Token", Class: models.AssetClassCrypto},
		},
	}

	agg := New(nil).Assemble(interfaces.AssembleInput{
		Query:    &query,
		Conflict: conflict,
	})

	assert.True(t, agg.RequiresDisambiguation())
	assert.Equal(t, "VVV", agg.Conflict.Symbol)
}

func TestAssemble_MinimalContextAlwaysCarriesQueryAndClassification(t *testing.T) {
	query := models.NewQuery("nonsense query")
	classification := models.QueryClassification{
		RiskContext: models.RiskContext{"general": "informational only"},
	}

	agg := New(nil).Assemble(interfaces.AssembleInput{
		RequestID:      "req-2",
		Query:          &query,
		Classification: classification,
	})

	assert.Equal(t, "req-2", agg.RequestID)
	assert.Equal(t, "nonsense query", agg.Query)
	assert.Equal(t, classification, agg.Classification)
	assert.False(t, agg.AssembledAt.IsZero())
}

func TestAssemble_SkipsNilAssets(t *testing.T) {
	query := models.NewQuery("ETH")
	agg := New(nil).Assemble(interfaces.AssembleInput{
		Query:  &query,
		Assets: []*models.ResolvedAsset{nil, cryptoAsset("ETH")},
	})
	assert.Len(t, agg.Assets, 1)
}
