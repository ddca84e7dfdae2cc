package model

import (
	"strings"
	"time"
)

// Hour classifies when an announcement happens relative to the trading session.
type Hour string

const (
	HourBeforeMarket Hour = "bmo"
	HourAfterMarket  Hour = "amc"
	HourUnspecified  Hour = ""
)

// NormalizeHour maps a provider hour string onto the known values.
// Anything unrecognized is treated as unspecified.
func NormalizeHour(s string) Hour {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bmo":
		return HourBeforeMarket
	case "amc":
		return HourAfterMarket
	}
	return HourUnspecified
}

// EarningsEvent is one provider-sourced earnings calendar entry.
// Events are immutable once fetched and never synthesized locally.
type EarningsEvent struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"` // DateLayout
	Hour   Hour   `json:"hour"`
}

// ParsedDate parses the event's calendar date.
func (e EarningsEvent) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// HistoricalMove is the realized single-day price gap around one past
// earnings event, as a percentage of the reference close.
type HistoricalMove struct {
	EarningsDate    string  `json:"earnings_date"`
	Hour            Hour    `json:"hour"`
	RealizedMovePct float64 `json:"realized_move_pct"`
}
