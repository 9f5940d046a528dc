package gemini

import (
	"fmt"
	"strings"

	"github.com/pallas-ai/pallas/internal/models"
)

// BuildMarketPrompt renders an aggregated context into the analysis prompt.
func BuildMarketPrompt(agg *models.AggregatedContext) string {
	var sb strings.Builder

	sb.WriteString("You are a market analyst. Answer the user's question using only the data below.\n")
	sb.WriteString("Provide a concise assessment of price action and technical posture. Do not give financial advice.\n\n")
	fmt.Fprintf(&sb, "User question: %s\n", agg.Query)

	if len(agg.Classification.Categories) > 0 {
		names := make([]string, 0, len(agg.Classification.Categories))
		for _, cat := range agg.Classification.Categories {
			names = append(names, cat.String())
		}
		fmt.Fprintf(&sb, "Query focus: %s\n", strings.Join(names, ", "))
	}
	for key, value := range agg.Classification.RiskContext {
		fmt.Fprintf(&sb, "Risk note (%s): %s\n", key, value)
	}

	for _, ac := range agg.Assets {
		writeAssetBlock(&sb, ac)
	}

	if len(agg.Bellwethers) > 0 {
		sb.WriteString("\nBroad market reference:\n")
		for _, bw := range agg.Bellwethers {
			fmt.Fprintf(&sb, "- %s (%s): $%.2f (%+.2f%%)", bw.Name, bw.Symbol, bw.Price, bw.ChangePct)
			if bw.RSIReading != "" {
				fmt.Fprintf(&sb, ", RSI %.1f (%s)", bw.RSI, bw.RSIReading)
			}
			sb.WriteString("\n")
		}
	}

	if len(agg.Calendar) > 0 {
		sb.WriteString("\nUpcoming economic events:\n")
		for _, ev := range agg.Calendar {
			fmt.Fprintf(&sb, "- %s [%s] %s", ev.Date.Format("2006-01-02 15:04"), ev.Country, ev.Event)
			if ev.Impact != "" {
				fmt.Fprintf(&sb, " (impact: %s)", ev.Impact)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeAssetBlock(sb *strings.Builder, ac *models.AssetContext) {
	asset := ac.Asset
	fmt.Fprintf(sb, "\nAsset: %s (%s, %s)\n", asset.Name, asset.Symbol, asset.Class)
	fmt.Fprintf(sb, "- Price: $%.4f (%+.2f%% 24h)\n", asset.Price, asset.ChangePct)
	if asset.MarketCap > 0 {
		fmt.Fprintf(sb, "- Market cap: $%.0f\n", asset.MarketCap)
	}
	if asset.Volume > 0 {
		fmt.Fprintf(sb, "- Volume: %.0f\n", asset.Volume)
	}

	for _, series := range ac.Indicators {
		latest, ok := series.Latest()
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "- %s(%d) @ %s: %.4f", series.Type, series.Period, series.Timeframe, latest.Value)
		if series.Type == models.IndicatorRSI && ac.RSIReading != "" {
			fmt.Fprintf(sb, " (%s)", ac.RSIReading)
		}
		sb.WriteString("\n")
	}
}

// BuildDisambiguationMessage formats the choice the end user must make when
// one symbol resolved to assets in different markets.
func BuildDisambiguationMessage(conflict *models.ConflictReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The symbol %q matches more than one asset:\n", conflict.Symbol)
	for i, cand := range conflict.Candidates {
		fmt.Fprintf(&sb, "%d. %s (%s, %s) at $%.4f\n", i+1, cand.Name, cand.Symbol, cand.Class, cand.Price)
	}
	sb.WriteString("Please specify which one you mean, for example by naming the asset or its market.\n")
	return sb.String()
}
