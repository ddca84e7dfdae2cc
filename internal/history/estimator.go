package history

import (
	"log"
	"math"
	"sort"
	"time"

	"EarningsSentinel/internal/model"
)

// EventSource provides past earnings calendar events for a symbol.
type EventSource interface {
	Get(symbol string, from, to time.Time) []model.EarningsEvent
}

// BarSource provides daily bars ending at a given date.
type BarSource interface {
	DailyBars(symbol string, end time.Time, days int) ([]model.OHLCV, error)
}

const (
	defaultLookbackDays = 730
	defaultMaxEvents    = 6

	// Daily bars fetched per symbol; covers the lookback plus weekend slack.
	barFetchDays = 800
)

// Estimator computes realized single-day earnings moves from past calendar
// events and daily bars. Events whose surrounding bars are unavailable are
// silently dropped rather than estimated.
type Estimator struct {
	Events EventSource
	Bars   BarSource

	LookbackDays int
	MaxEvents    int
	Now          func() time.Time
}

func NewEstimator(events EventSource, bars BarSource) *Estimator {
	return &Estimator{
		Events:       events,
		Bars:         bars,
		LookbackDays: defaultLookbackDays,
		MaxEvents:    defaultMaxEvents,
		Now:          time.Now,
	}
}

// RealizedMoves returns the realized moves for the symbol's most recent past
// earnings events, newest first, capped at MaxEvents.
func (e *Estimator) RealizedMoves(symbol string) []model.HistoricalMove {
	now := e.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -e.LookbackDays)

	events := e.Events.Get(symbol, from, today.AddDate(0, 0, -1))
	if len(events) == 0 {
		return nil
	}

	// Strictly past events only, newest first.
	var past []model.EarningsEvent
	for _, ev := range events {
		d, err := ev.ParsedDate()
		if err != nil {
			continue
		}
		if d.Before(today) {
			past = append(past, ev)
		}
	}
	sort.Slice(past, func(i, j int) bool { return past[i].Date > past[j].Date })
	if len(past) > e.MaxEvents {
		past = past[:e.MaxEvents]
	}
	if len(past) == 0 {
		return nil
	}

	bars, err := e.Bars.DailyBars(symbol, today, barFetchDays)
	if err != nil || len(bars) == 0 {
		log.Printf("[WARN] no daily bars for %s, skipping realized moves: %v", symbol, err)
		return nil
	}

	var moves []model.HistoricalMove
	for _, ev := range past {
		if pct, ok := realizedMove(ev, bars); ok {
			moves = append(moves, model.HistoricalMove{
				EarningsDate:    ev.Date,
				Hour:            ev.Hour,
				RealizedMovePct: round2(pct),
			})
		}
	}
	return moves
}

// realizedMove computes the single-day gap for one event against ascending
// daily bars. A bmo announcement gaps the event day's open against the prior
// session's close; amc gaps the next session's open against the event day's
// close. With no hour, or with the timing-specific bars unavailable, the
// close-to-close move between the event session and the next one is used.
func realizedMove(ev model.EarningsEvent, bars []model.OHLCV) (float64, bool) {
	if _, err := ev.ParsedDate(); err != nil {
		return 0, false
	}

	// Nearest session at-or-before the event date, plus its neighbors.
	// Bars carry intraday timestamps from live sources, so sessions are
	// matched on calendar date, never on time of day.
	idx := -1
	for i, b := range bars {
		if b.DateKey() > ev.Date {
			break
		}
		idx = i
	}
	if idx < 0 {
		return 0, false
	}

	switch ev.Hour {
	case model.HourBeforeMarket:
		if idx > 0 && bars[idx-1].Close > 0 {
			prev, cur := bars[idx-1], bars[idx]
			return math.Abs(cur.Open-prev.Close) / prev.Close * 100, true
		}
	case model.HourAfterMarket:
		if idx+1 < len(bars) && bars[idx].Close > 0 {
			cur, next := bars[idx], bars[idx+1]
			return math.Abs(next.Open-cur.Close) / cur.Close * 100, true
		}
	}

	if idx+1 < len(bars) && bars[idx].Close > 0 {
		cur, next := bars[idx], bars[idx+1]
		return math.Abs(next.Close-cur.Close) / cur.Close * 100, true
	}
	return 0, false
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
