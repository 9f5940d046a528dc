package models

// BellwetherAsset identifies one broad-market reference instrument.
type BellwetherAsset struct {
	Symbol string
	Name   string
	Class  AssetClass
}

// DefaultBellwethers is the fixed reference set used to frame any query in
// broad-market terms regardless of which assets the query itself names.
var DefaultBellwethers = []BellwetherAsset{
	{Symbol: "SPY", Name: "S&P 500 ETF", Class: AssetClassEquity},
	{Symbol: "^VIX", Name: "CBOE Volatility Index", Class: AssetClassEquity},
	{Symbol: "DX-Y.NYB", Name: "US Dollar Index", Class: AssetClassEquity},
	{Symbol: "EURUSD", Name: "Euro / US Dollar", Class: AssetClassEquity},
	{Symbol: "BTCUSD", Name: "Bitcoin", Class: AssetClassCrypto},
}

// BellwetherEntry is a quote snapshot for one reference instrument, with an
// optional RSI reading when indicator data was available.
type BellwetherEntry struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	Price      float64    `json:"price"`
	ChangePct  float64    `json:"change_pct"`
	RSI        float64    `json:"rsi,omitempty"`
	RSIReading RSIReading `json:"rsi_reading,omitempty"`
}
