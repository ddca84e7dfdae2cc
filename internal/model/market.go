package model

import "time"

// DateLayout is the calendar-date format used across providers and output files.
const DateLayout = "2006-01-02"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// DateKey returns the bar's calendar date in DateLayout form.
func (b OHLCV) DateKey() string {
	return b.Time.Format(DateLayout)
}

// OptionQuote holds a best-effort snapshot for one option contract.
// A zero or negative bid/ask/last means that side was not populated at
// snapshot time. ImpliedVol is a decimal (0.55 = 55%), 0 when the service
// did not provide one.
type OptionQuote struct {
	Strike     float64
	Expiration string // YYYYMMDD
	Bid        float64
	Ask        float64
	Last       float64
	ImpliedVol float64
}

// Mid returns the quote midpoint: average of bid/ask when both sides are
// present, falling back to last, then to whichever single side exists.
// The second return is false when no price is available at all.
func (q OptionQuote) Mid() (float64, bool) {
	bid := q.Bid > 0
	ask := q.Ask > 0
	switch {
	case bid && ask:
		return (q.Bid + q.Ask) / 2.0, true
	case q.Last > 0:
		return q.Last, true
	case bid:
		return q.Bid, true
	case ask:
		return q.Ask, true
	}
	return 0, false
}
