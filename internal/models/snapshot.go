package models

import "time"

// IndicatorSnapshot is a persisted record of one indicator fetch for a
// symbol. ID is assigned by the store.
type IndicatorSnapshot struct {
	ID         uint64       `badgerhold:"key"`
	Symbol     string       `badgerholdIndex:"Symbol"`
	Indicators IndicatorSet `json:"indicators"`
	CapturedAt time.Time    `badgerholdIndex:"CapturedAt"`
}
