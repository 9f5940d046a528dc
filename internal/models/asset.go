package models

// AssetClass distinguishes the market an asset trades in.
type AssetClass string

const (
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassCrypto AssetClass = "CRYPTO"
)

// ResolvedAsset is the canonical identity of one disambiguated instrument.
// Within a single resolution result there is at most one ResolvedAsset per
// (symbol, class) pair; a cross-class collision surfaces as a conflict
// instead of silently picking one.
type ResolvedAsset struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	Class      AssetClass `json:"asset_class"`
	Price      float64    `json:"price"`
	ChangePct  float64    `json:"change_percent"`
	MarketCap  float64    `json:"market_cap"`
	Volume     float64    `json:"volume"`
	DataSource string     `json:"data_source"`
}

// Key identifies the asset within a resolution result.
func (a *ResolvedAsset) Key() string {
	return a.Symbol + "/" + string(a.Class)
}

// SearchResult is one ranked entry from a crypto search index.
type SearchResult struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
}

// ConflictReport carries every asset matching a colliding symbol. The caller
// is responsible for prompting the end user to disambiguate.
type ConflictReport struct {
	Symbol     string           `json:"symbol"`
	Candidates []*ResolvedAsset `json:"candidates"`
}
