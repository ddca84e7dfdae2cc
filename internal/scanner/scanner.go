package scanner

import (
	"math"
	"time"

	"EarningsSentinel/internal/calendar"
	"EarningsSentinel/internal/history"
	"EarningsSentinel/internal/market"
	"EarningsSentinel/internal/model"
)

// Scanner runs the pre-earnings straddle and IV-crush scans over a ticker
// universe. Tickers are processed sequentially with per-ticker isolation:
// any failure is logged and skipped, never aborting the scan.
type Scanner struct {
	Calendar  *calendar.Cache
	Market    market.Data
	Estimator *history.Estimator
	Universe  []string

	// Straddle entry window: earnings EntryTargetDays out, +/- EntryWindowDays.
	EntryTargetDays int
	EntryWindowDays int

	// LookaheadDays bounds the upcoming-earnings search for the straddle scan;
	// CrushDaysAhead bounds it for the crush scan.
	LookaheadDays  int
	CrushDaysAhead int

	// MaxSpreadRatio caps (ask-bid)/mid per leg in the straddle scan.
	MaxSpreadRatio float64

	// Pause between tickers, to stay under gateway pacing limits.
	Pause time.Duration

	Now func() time.Time
}

const (
	defaultEntryTargetDays = 14
	defaultEntryWindowDays = 3
	defaultLookaheadDays   = 45
	defaultCrushDaysAhead  = 30
	defaultMaxSpreadRatio  = 0.35
)

// New creates a Scanner with the default scan parameters.
func New(cal *calendar.Cache, data market.Data, est *history.Estimator, tickers []string) *Scanner {
	return &Scanner{
		Calendar:        cal,
		Market:          data,
		Estimator:       est,
		Universe:        tickers,
		EntryTargetDays: defaultEntryTargetDays,
		EntryWindowDays: defaultEntryWindowDays,
		LookaheadDays:   defaultLookaheadDays,
		CrushDaysAhead:  defaultCrushDaysAhead,
		MaxSpreadRatio:  defaultMaxSpreadRatio,
		Now:             time.Now,
	}
}

// upcoming is one ticker with a known announcement inside the lookahead.
type upcoming struct {
	Symbol    string
	Date      string // DateLayout
	DaysUntil int
}

// upcomingEarnings resolves each universe ticker's next earnings date within
// daysAhead days, keeping only dates from today onward.
func (s *Scanner) upcomingEarnings(daysAhead int) []upcoming {
	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var out []upcoming
	for _, ticker := range s.Universe {
		date, ok := s.Calendar.NextEarningsDate(ticker, daysAhead)
		if !ok {
			continue
		}
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			continue
		}
		daysUntil := int(d.Sub(today).Hours() / 24)
		if daysUntil < 0 || daysUntil > daysAhead {
			continue
		}
		out = append(out, upcoming{Symbol: ticker, Date: date, DaysUntil: daysUntil})
	}
	return out
}

// spreadOK applies the per-leg liquidity filter: with both sides quoted, the
// bid/ask width must not exceed MaxSpreadRatio of the mid. A one-sided quote
// passes; the width is unknowable and the mid fallback already applied.
func (s *Scanner) spreadOK(bid, ask, mid float64) bool {
	if bid <= 0 || ask <= 0 || mid <= 0 {
		return true
	}
	return (ask-bid)/mid <= s.MaxSpreadRatio
}

func (s *Scanner) pause() {
	if s.Pause > 0 {
		time.Sleep(s.Pause)
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

func roundPtr2(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := round2(*p)
	return &v
}

func roundPtr3(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := round3(*p)
	return &v
}
