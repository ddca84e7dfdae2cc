package scoring

import "EarningsSentinel/internal/model"

// Thresholds for the term-structure (IV crush) policy. These are literal
// configuration constants, deliberately separate from the straddle policy's
// thresholds: the two classifications were never reconciled upstream and are
// kept as distinct named policies.
const (
	crushHighIVPct     = 60.0
	crushModerateIVPct = 50.0

	crushStrongSlopePct = 10.0
	crushDecentSlopePct = 5.0

	crushStrongMaxDays = 5
	crushDecentMaxDays = 7
)

// TermStructure holds the IV inputs for the crush classifier. Front and back
// IVs are decimals (0.55 = 55%).
type TermStructure struct {
	FrontIV float64
	BackIV  float64
}

// SlopePct returns the front IV premium over the back IV, in percent.
func (t TermStructure) SlopePct() float64 {
	if t.BackIV <= 0 {
		return 0
	}
	return (t.FrontIV/t.BackIV - 1) * 100
}

// Positive reports whether the front IV exceeds the back IV. Without that,
// there is no crush edge to harvest.
func (t TermStructure) Positive() bool {
	return t.FrontIV > t.BackIV
}

// ClassifyTermStructure maps a term structure and proximity to the
// announcement onto RECOMMENDED/CONSIDER/AVOID. A non-positive slope is
// always AVOID regardless of absolute IV level.
func ClassifyTermStructure(ts TermStructure, daysToEarnings int) model.Recommendation {
	if !ts.Positive() {
		return model.RecAvoid
	}

	atmIVPct := ts.FrontIV * 100
	slopePct := ts.SlopePct()

	switch {
	case atmIVPct > crushHighIVPct && daysToEarnings <= crushStrongMaxDays && slopePct > crushStrongSlopePct:
		return model.RecRecommended
	case atmIVPct > crushModerateIVPct && daysToEarnings <= crushDecentMaxDays && slopePct > crushDecentSlopePct:
		return model.RecConsider
	}
	return model.RecAvoid
}
