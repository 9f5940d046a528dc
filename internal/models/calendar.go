package models

import "time"

// EconomicEvent is one scheduled macro release from the economic calendar.
type EconomicEvent struct {
	Event    string    `json:"event"`
	Country  string    `json:"country"`
	Date     time.Time `json:"date"`
	Impact   string    `json:"impact,omitempty"`
	Actual   *float64  `json:"actual,omitempty"`
	Estimate *float64  `json:"estimate,omitempty"`
	Previous *float64  `json:"previous,omitempty"`
}

// CalendarWindow is the default span queried around the current time.
const CalendarWindow = 3 * 24 * time.Hour
