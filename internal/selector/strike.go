package selector

import "math"

// ATMStrike rounds a stock price to a typical liquid strike increment:
// 2.5 below $50, 5 up to $200, 10 above.
func ATMStrike(price float64) float64 {
	switch {
	case price < 50:
		return roundTo(price, 2.5)
	case price < 200:
		return roundTo(price, 5)
	}
	return roundTo(price, 10)
}

func roundTo(price, step float64) float64 {
	return math.Round(price/step) * step
}
