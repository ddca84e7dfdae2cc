package scanner

import (
	"log"
	"time"

	"EarningsSentinel/internal/market"
	"EarningsSentinel/internal/model"
	"EarningsSentinel/internal/scoring"
	"EarningsSentinel/internal/selector"
)

// StraddleScan runs the pre-earnings long straddle scan: tickers whose next
// announcement falls inside the entry window get an ATM straddle priced on
// the first post-earnings expiration, compared against their historical
// realized moves.
func (s *Scanner) StraddleScan() model.StraddleScanResult {
	now := s.Now()

	found := s.upcomingEarnings(s.LookaheadDays)

	minDays := s.EntryTargetDays - s.EntryWindowDays
	maxDays := s.EntryTargetDays + s.EntryWindowDays
	var candidates []upcoming
	for _, u := range found {
		if u.DaysUntil >= minDays && u.DaysUntil <= maxDays {
			candidates = append(candidates, u)
		}
	}

	log.Printf("[INFO] straddle scan: universe=%d upcoming<=%dd=%d window=%d-%dd candidates=%d",
		len(s.Universe), s.LookaheadDays, len(found), minDays, maxDays, len(candidates))

	opportunities := []model.Opportunity{}
	for _, u := range candidates {
		log.Printf("[INFO] scanning %s (earnings %s, %d days)", u.Symbol, u.Date, u.DaysUntil)
		opp, err := s.straddleOne(u, now)
		if err != nil {
			log.Printf("[SKIP] %s: %v", u.Symbol, err)
			s.pause()
			continue
		}
		opportunities = append(opportunities, opp)
		s.pause()
	}

	scoring.SortOpportunities(opportunities)

	summary := model.StraddleSummary{TotalOpportunities: len(opportunities)}
	for _, o := range opportunities {
		switch o.Recommendation {
		case model.RecCandidate:
			summary.TotalCandidate++
		case model.RecWatch:
			summary.TotalWatch++
		case model.RecPass:
			summary.TotalPass++
		}
	}

	return model.StraddleScanResult{
		Timestamp:         now.Format(time.RFC3339),
		Date:              now.Format(model.DateLayout),
		EntryTargetDays:   s.EntryTargetDays,
		EntryWindowDays:   s.EntryWindowDays,
		UniverseSize:      len(s.Universe),
		EarningsFound:     len(found),
		CandidatesScanned: len(candidates),
		Opportunities:     opportunities,
		Summary:           summary,
	}
}

// straddleOne prices and scores one candidate. Every failure path returns an
// error so the caller can log a uniform skip.
func (s *Scanner) straddleOne(u upcoming, now time.Time) (model.Opportunity, error) {
	var none model.Opportunity

	price, err := s.Market.StockPrice(u.Symbol)
	if err != nil {
		return none, err
	}

	strike := selector.ATMStrike(price)

	expirations, err := s.Market.OptionExpirations(u.Symbol, strike)
	if err != nil {
		return none, err
	}
	picked, ok := selector.PickStraddleExpiration(expirations, u.DaysUntil, now)
	if !ok {
		return none, errNoExpiration
	}

	call, err := s.Market.OptionQuote(u.Symbol, picked.Date, strike, market.RightCall)
	if err != nil {
		return none, err
	}
	put, err := s.Market.OptionQuote(u.Symbol, picked.Date, strike, market.RightPut)
	if err != nil {
		return none, err
	}

	callMid, callOK := call.Mid()
	putMid, putOK := put.Mid()
	if !callOK || !putOK || callMid <= 0 || putMid <= 0 {
		return none, errNoMids
	}
	if !s.spreadOK(call.Bid, call.Ask, callMid) || !s.spreadOK(put.Bid, put.Ask, putMid) {
		return none, errTooWide
	}

	straddleMid := callMid + putMid
	impliedMovePct := straddleMid / price * 100

	hist := s.Estimator.RealizedMoves(u.Symbol)
	if hist == nil {
		hist = []model.HistoricalMove{}
	}
	score := scoring.ScoreStraddle(impliedMovePct, hist)

	expDate, _ := time.Parse("20060102", picked.Date)

	return model.Opportunity{
		Ticker:              u.Symbol,
		Price:               round2(price),
		EarningsDate:        u.Date,
		DaysToEarnings:      u.DaysUntil,
		Expiry:              expDate.Format(model.DateLayout),
		ExpiryDTE:           picked.DTE,
		ExpiryIsMonthly:     selector.IsMonthly(picked.Date),
		Strike:              strike,
		CallMid:             round2(callMid),
		PutMid:              round2(putMid),
		StraddleMid:         round2(straddleMid),
		ImpliedMovePct:      round2(impliedMovePct),
		HistoricalMoves:     hist,
		RealizedMoveAvgPct:  roundPtr2(score.RealizedAvgPct),
		RealizedMoveLastPct: roundPtr2(score.RealizedLastPct),
		RatioToAvg:          roundPtr3(score.RatioToAvg),
		RatioToLast:         roundPtr3(score.RatioToLast),
		Score:               roundPtr3(score.Score),
		Recommendation:      score.Recommendation,
	}, nil
}
