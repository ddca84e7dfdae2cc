package selector

import "time"

// expirationLayout is the YYYYMMDD format used by option chains.
const expirationLayout = "20060102"

// Expiration is one qualifying option expiration with its days-to-expiration
// relative to the scan date.
type Expiration struct {
	Date string // YYYYMMDD
	DTE  int
}

// Straddle-mode window: the expiration must clear the announcement but stay
// within ~3 months of it.
const (
	straddleMinAfterEarnings = 1
	straddleMaxAfterEarnings = 90
)

// Calendar-mode windows: front leg brackets the announcement, back leg sits
// roughly 30 days behind the front.
const (
	frontMinBeforeEarnings = 3
	frontMaxAfterEarnings  = 7
	backMinGap             = 25
	backMaxGap             = 35
)

// IsMonthly reports whether a YYYYMMDD expiration is a standard monthly:
// the third Friday, approximated as a Friday with day-of-month 15-21.
func IsMonthly(expiration string) bool {
	d, err := time.Parse(expirationLayout, expiration)
	if err != nil {
		return false
	}
	return d.Weekday() == time.Friday && d.Day() >= 15 && d.Day() <= 21
}

// dte returns days from today to the expiration, or false if unparseable.
func dte(expiration string, today time.Time) (int, bool) {
	d, err := time.Parse(expirationLayout, expiration)
	if err != nil {
		return 0, false
	}
	return int(d.Sub(today).Hours() / 24), true
}

// PickStraddleExpiration picks the expiration for a post-earnings straddle:
// among expirations with dte in [daysUntilEarnings+1, daysUntilEarnings+90],
// the nearest monthly wins; with no monthly in range, the nearest overall.
// Returns false when nothing qualifies.
func PickStraddleExpiration(expirations []string, daysUntilEarnings int, today time.Time) (Expiration, bool) {
	today = midnight(today)

	var candidates []Expiration
	for _, exp := range expirations {
		d, ok := dte(exp, today)
		if !ok {
			continue
		}
		if d < daysUntilEarnings+straddleMinAfterEarnings || d > daysUntilEarnings+straddleMaxAfterEarnings {
			continue
		}
		candidates = append(candidates, Expiration{Date: exp, DTE: d})
	}
	if len(candidates) == 0 {
		return Expiration{}, false
	}

	best := Expiration{}
	bestMonthly := Expiration{}
	hasBest, hasMonthly := false, false
	for _, c := range candidates {
		if !hasBest || c.DTE < best.DTE {
			best = c
			hasBest = true
		}
		if IsMonthly(c.Date) && (!hasMonthly || c.DTE < bestMonthly.DTE) {
			bestMonthly = c
			hasMonthly = true
		}
	}
	if hasMonthly {
		return bestMonthly, true
	}
	return best, true
}

// PickFrontLeg picks the front expiration for a calendar spread: earliest
// dte in [max(1, daysUntilEarnings-3), daysUntilEarnings+7].
func PickFrontLeg(expirations []string, daysUntilEarnings int, today time.Time) (Expiration, bool) {
	frontMin := daysUntilEarnings - frontMinBeforeEarnings
	if frontMin < 1 {
		frontMin = 1
	}
	return earliestInWindow(expirations, frontMin, daysUntilEarnings+frontMaxAfterEarnings, midnight(today))
}

// BackLegWindow returns the dte bounds for the back leg given the front dte.
func BackLegWindow(frontDTE int) (min, max int) {
	return frontDTE + backMinGap, frontDTE + backMaxGap
}

// PickBackLeg picks the back expiration: earliest dte within BackLegWindow
// of the chosen front leg.
func PickBackLeg(expirations []string, frontDTE int, today time.Time) (Expiration, bool) {
	min, max := BackLegWindow(frontDTE)
	return earliestInWindow(expirations, min, max, midnight(today))
}

// PickCalendarLegs picks both legs of a calendar spread around the
// announcement. Returns false when either leg has no candidate; callers that
// need to report which leg failed use PickFrontLeg/PickBackLeg directly.
func PickCalendarLegs(expirations []string, daysUntilEarnings int, today time.Time) (front, back Expiration, ok bool) {
	front, ok = PickFrontLeg(expirations, daysUntilEarnings, today)
	if !ok {
		return Expiration{}, Expiration{}, false
	}
	back, ok = PickBackLeg(expirations, front.DTE, today)
	if !ok {
		return Expiration{}, Expiration{}, false
	}
	return front, back, true
}

// earliestInWindow returns the smallest-dte expiration with dte in [min, max].
func earliestInWindow(expirations []string, min, max int, today time.Time) (Expiration, bool) {
	best := Expiration{}
	found := false
	for _, exp := range expirations {
		d, ok := dte(exp, today)
		if !ok || d < min || d > max {
			continue
		}
		if !found || d < best.DTE {
			best = Expiration{Date: exp, DTE: d}
			found = true
		}
	}
	return best, found
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
