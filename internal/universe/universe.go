package universe

import (
	"sort"
	"strings"
)

// mag7 and nasdaq100Subset form the built-in scan universe: the mega-caps
// plus the liquid NASDAQ-100 names with active weekly option chains.
var mag7 = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA"}

var nasdaq100Subset = []string{
	"ADBE", "AMD", "ABNB", "AVGO", "BKNG", "CMCSA", "COST", "CSCO",
	"CRWD", "DDOG", "DIS", "EA", "GILD", "INTC", "INTU", "ISRG",
	"KLAC", "LRCX", "MELI", "MRNA", "NFLX", "NOW", "PANW", "PYPL",
	"QCOM", "SBUX", "SHOP", "SNOW", "TEAM", "TTWO", "UBER", "WDAY", "ZS",
}

// Default returns the built-in scan universe, deduplicated and sorted.
func Default() []string {
	return Normalize(append(append([]string{}, mag7...), nasdaq100Subset...))
}

// Normalize upper-cases, trims, deduplicates, and sorts a ticker list,
// dropping empty entries. Used both for the built-in list and for
// config-supplied overrides.
func Normalize(tickers []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
