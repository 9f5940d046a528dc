// Package classifier tags queries with topical market categories and the
// risk guidance the narrative should carry.
package classifier

import (
	"strings"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// categoryTerms holds the two matching tiers for one category. Primary terms
// match as substrings of the normalized query and short-circuit the secondary
// check; secondary terms match only whole tokens.
type categoryTerms struct {
	primary   []string
	secondary []string
}

var termsByCategory = map[models.Category]categoryTerms{
	models.CategoryOptions: {
		primary:   []string{"options", "option chain", "0dte", "covered call", "iron condor", "strike price"},
		secondary: []string{"calls", "puts", "call", "put", "strike", "expiry", "theta", "delta", "gamma"},
	},
	models.CategoryDayTrading: {
		primary:   []string{"day trading", "daytrading", "day trade", "scalping", "intraday"},
		secondary: []string{"scalp", "daytrade", "momentum", "breakout"},
	},
	models.CategoryCrypto: {
		primary:   []string{"crypto", "cryptocurrency", "blockchain", "bitcoin", "ethereum", "memecoin", "altcoin", "defi"},
		secondary: []string{"coin", "token", "btc", "eth", "sol", "onchain", "staking"},
	},
	models.CategoryForex: {
		primary:   []string{"forex", "currency pair", "exchange rate", "fx market"},
		secondary: []string{"eurusd", "gbpusd", "usdjpy", "usd", "eur", "jpy", "pip", "pips"},
	},
	models.CategoryEconomic: {
		primary:   []string{"economic calendar", "interest rate", "federal reserve", "inflation", "nonfarm payroll"},
		secondary: []string{"fed", "fomc", "cpi", "gdp", "macro", "unemployment", "recession"},
	},
}

// defaultRiskContext applies when no category matched.
var defaultRiskContext = models.RiskContext{
	"general": "Market data is informational only and not financial advice.",
}

// riskContextFor returns the advisory guidance for a category. Total over
// the Category enum: every member has an entry.
func riskContextFor(c models.Category) models.RiskContext {
	switch c {
	case models.CategoryOptions:
		return models.RiskContext{
			"leverage": "Options carry leverage and expiry risk; losses can exceed the premium framing the user expects.",
			"timing":   "Time decay accelerates near expiry; directional reads must account for theta.",
		}
	case models.CategoryDayTrading:
		return models.RiskContext{
			"volatility": "Intraday positions are exposed to rapid reversals; indicator readings on short timeframes are noisy.",
			"discipline": "Stop placement and position sizing matter more than entry signals for short holding periods.",
		}
	case models.CategoryCrypto:
		return models.RiskContext{
			"volatility": "Crypto assets trade continuously and can move double-digit percentages in hours.",
			"custody":    "Exchange and contract risk exist independently of price action.",
		}
	case models.CategoryForex:
		return models.RiskContext{
			"leverage": "Forex positions are typically leveraged; small pip moves compound into large account swings.",
			"macro":    "Currency pairs react first to rate differentials and central bank guidance.",
		}
	case models.CategoryEconomic:
		return models.RiskContext{
			"events": "Scheduled releases can gap prices past stops; position ahead of high-impact events with care.",
		}
	default:
		return defaultRiskContext
	}
}

// Classifier implements the QueryClassifier interface.
type Classifier struct {
	logger *common.Logger
}

// New creates a classifier.
func New(logger *common.Logger) *Classifier {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Classifier{logger: logger}
}

// Classify tags the query with every matched category and selects the risk
// context of the highest-priority match. Never fails: an empty or
// unrecognized query yields no categories and the default risk context.
func (c *Classifier) Classify(query *models.Query) models.QueryClassification {
	classification := models.QueryClassification{
		RiskContext: defaultRiskContext,
	}
	if query == nil || query.IsEmpty() {
		return classification
	}

	matched := make(map[models.Category]bool)
	for cat, terms := range termsByCategory {
		if matchPrimary(query.Normalized, terms.primary) || matchSecondary(query, terms.secondary) {
			matched[cat] = true
		}
	}

	// Priority order over the enum keeps results deterministic regardless
	// of map iteration order.
	for _, cat := range models.AllCategories {
		if matched[cat] {
			classification.Categories = append(classification.Categories, cat)
		}
	}
	if len(classification.Categories) > 0 {
		classification.RiskContext = riskContextFor(classification.Categories[0])
	}

	c.logger.Debug().
		Int("categories", len(classification.Categories)).
		Str("query", query.Normalized).
		Msg("query classified")

	return classification
}

func matchPrimary(normalized string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

func matchSecondary(query *models.Query, terms []string) bool {
	for _, term := range terms {
		if query.HasToken(term) {
			return true
		}
	}
	return false
}

var _ interfaces.QueryClassifier = (*Classifier)(nil)
