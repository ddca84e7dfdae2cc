package scanner

import (
	"errors"
	"fmt"
	"log"
	"time"

	"EarningsSentinel/internal/market"
	"EarningsSentinel/internal/model"
	"EarningsSentinel/internal/scoring"
	"EarningsSentinel/internal/selector"
)

var (
	errNoExpiration = errors.New("no suitable expiration after earnings")
	errNoMids       = errors.New("missing option mids")
	errTooWide      = errors.New("options too wide / illiquid")
	errNoFrontLeg   = errors.New("no front month options found")
)

// Missing-IV fallbacks. A flat default term structure keeps the ticker in the
// report as AVOID-leaning rather than dropping it outright.
const (
	defaultFrontIV = 0.5
	defaultBackIV  = 0.4
)

// CrushScan runs the IV-crush (calendar spread) scan: every ticker with an
// announcement inside the lookahead gets an ATM call calendar priced around
// the event and classified on its IV term structure.
func (s *Scanner) CrushScan() model.CrushScanResult {
	now := s.Now()

	found := s.upcomingEarnings(s.CrushDaysAhead)

	log.Printf("[INFO] crush scan: universe=%d earnings<=%dd=%d",
		len(s.Universe), s.CrushDaysAhead, len(found))

	opportunities := []model.CrushOpportunity{}
	for _, u := range found {
		log.Printf("[INFO] analyzing %s (earnings %s, %d days)", u.Symbol, u.Date, u.DaysUntil)
		opp, err := s.crushOne(u, now)
		if err != nil {
			log.Printf("[SKIP] %s: %v", u.Symbol, err)
			s.pause()
			continue
		}
		opportunities = append(opportunities, opp)
		s.pause()
	}

	summary := model.CrushSummary{}
	sumIV, sumMove := 0.0, 0.0
	for _, o := range opportunities {
		switch o.Recommendation {
		case model.RecRecommended:
			summary.TotalRecommended++
		case model.RecConsider:
			summary.TotalConsider++
		default:
			summary.TotalAvoid++
		}
		sumIV += o.IV
		sumMove += o.ExpectedMovePct
	}
	if n := len(opportunities); n > 0 {
		summary.AvgIV = round1(sumIV / float64(n))
		summary.AvgExpectedMove = round1(sumMove / float64(n))
	}

	return model.CrushScanResult{
		Timestamp:     now.Format(time.RFC3339),
		Date:          now.Format(model.DateLayout),
		TotalScanned:  len(s.Universe),
		EarningsFound: len(found),
		Opportunities: opportunities,
		Summary:       summary,
	}
}

// crushOne prices and classifies one calendar-spread candidate.
func (s *Scanner) crushOne(u upcoming, now time.Time) (model.CrushOpportunity, error) {
	var none model.CrushOpportunity

	price, err := s.Market.StockPrice(u.Symbol)
	if err != nil {
		return none, err
	}

	strike := selector.ATMStrike(price)

	expirations, err := s.Market.OptionExpirations(u.Symbol, strike)
	if err != nil {
		return none, err
	}
	front, ok := selector.PickFrontLeg(expirations, u.DaysUntil, now)
	if !ok {
		return none, errNoFrontLeg
	}
	back, ok := selector.PickBackLeg(expirations, front.DTE, now)
	if !ok {
		backMin, backMax := selector.BackLegWindow(front.DTE)
		return none, fmt.Errorf("no back month options found (need %d-%d dte)", backMin, backMax)
	}

	log.Printf("[INFO]   front %s (%d dte), back %s (%d dte), gap %d days",
		front.Date, front.DTE, back.Date, back.DTE, back.DTE-front.DTE)

	frontCall, err := s.Market.OptionQuote(u.Symbol, front.Date, strike, market.RightCall)
	if err != nil {
		return none, err
	}
	backCall, err := s.Market.OptionQuote(u.Symbol, back.Date, strike, market.RightCall)
	if err != nil {
		return none, err
	}

	frontMid, frontOK := frontCall.Mid()
	backMid, backOK := backCall.Mid()
	if !frontOK || !backOK || frontMid <= 0 || backMid <= 0 {
		return none, errNoMids
	}

	frontIV, backIV := frontCall.ImpliedVol, backCall.ImpliedVol
	if frontIV <= 0 || backIV <= 0 {
		log.Printf("[WARN] missing IV data for %s (front=%.3f back=%.3f), using defaults",
			u.Symbol, frontIV, backIV)
		if frontIV <= 0 {
			frontIV = defaultFrontIV
		}
		if backIV <= 0 {
			backIV = defaultBackIV
		}
	}

	ts := scoring.TermStructure{FrontIV: frontIV, BackIV: backIV}
	rec := scoring.ClassifyTermStructure(ts, u.DaysUntil)

	// ATM straddle approximation: twice the call mid.
	expectedMove := frontMid * 2
	expectedMovePct := expectedMove / price * 100

	frontDate, _ := time.Parse("20060102", front.Date)
	backDate, _ := time.Parse("20060102", back.Date)

	return model.CrushOpportunity{
		Ticker:          u.Symbol,
		Price:           round2(price),
		EarningsDate:    u.Date,
		DaysToEarnings:  u.DaysUntil,
		IV:              round1(frontIV * 100),
		BackIV:          round1(backIV * 100),
		ExpectedMove:    round2(expectedMove),
		ExpectedMovePct: round1(expectedMovePct),
		Criteria: model.CrushCriteria{
			HighIV:          frontIV*100 > 50,
			TSSlopePositive: ts.Positive(),
			IVSlopePct:      round1(ts.SlopePct()),
		},
		SuggestedTrade: model.SuggestedTrade{
			Strike:         strike,
			SellExpiration: frontDate.Format(model.DateLayout),
			BuyExpiration:  backDate.Format(model.DateLayout),
			SellDTE:        front.DTE,
			BuyDTE:         back.DTE,
			SellPrice:      round2(frontMid),
			BuyPrice:       round2(backMid),
			NetCredit:      round2(frontMid - backMid),
		},
		Recommendation: rec,
	}, nil
}
