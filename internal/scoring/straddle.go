package scoring

import (
	"EarningsSentinel/internal/model"
)

// Classification thresholds for the straddle relative-value policy. Implied
// move meaningfully below the historical realized move marks a candidate.
const (
	candidateMaxRatioAvg  = 0.90
	candidateMaxRatioLast = 0.95
	watchMaxRatioAvg      = 1.00
)

// StraddleScore is the relative-value read of a current implied move against
// a ticker's historical realized moves. Nil fields are undefined statistics
// (missing history, non-positive denominators) and are excluded from the
// classification.
type StraddleScore struct {
	RealizedAvgPct  *float64
	RealizedLastPct *float64
	RatioToAvg      *float64
	RatioToLast     *float64
	Score           *float64
	Recommendation  model.Recommendation
}

// ScoreStraddle combines an implied move with a historical move series
// (most recent first) into ratios, a score, and a recommendation.
// It is a pure function: identical inputs always yield identical output.
func ScoreStraddle(impliedMovePct float64, hist []model.HistoricalMove) StraddleScore {
	s := StraddleScore{Recommendation: model.RecWatch}

	if len(hist) > 0 {
		sum := 0.0
		for _, h := range hist {
			sum += h.RealizedMovePct
		}
		avg := sum / float64(len(hist))
		last := hist[0].RealizedMovePct
		s.RealizedAvgPct = &avg
		s.RealizedLastPct = &last

		if avg > 0 {
			r := impliedMovePct / avg
			s.RatioToAvg = &r
		}
		if last > 0 {
			r := impliedMovePct / last
			s.RatioToLast = &r
		}
		if avg > 0 && impliedMovePct > 0 {
			// Higher score = richer historical move relative to implied cost.
			sc := (avg - impliedMovePct) / impliedMovePct
			s.Score = &sc
		}
	}

	// Either ratio undefined keeps the conservative WATCH default.
	if s.RatioToAvg != nil && s.RatioToLast != nil {
		switch {
		case *s.RatioToAvg <= candidateMaxRatioAvg && *s.RatioToLast <= candidateMaxRatioLast:
			s.Recommendation = model.RecCandidate
		case *s.RatioToAvg <= watchMaxRatioAvg:
			s.Recommendation = model.RecWatch
		default:
			s.Recommendation = model.RecPass
		}
	}

	return s
}
