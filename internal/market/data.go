package market

import (
	"time"

	"EarningsSentinel/internal/model"
)

// Right selects the option side.
type Right string

const (
	RightCall Right = "C"
	RightPut  Right = "P"
)

// Data is the quote/market-data service the scanners consume. Implementations
// return best-effort snapshots: absent values inside an OptionQuote are zero,
// and a missing instrument or empty snapshot is an error the caller turns
// into a per-ticker skip.
type Data interface {
	// StockPrice returns the current underlying price.
	StockPrice(symbol string) (float64, error)

	// OptionExpirations lists available option expirations (YYYYMMDD,
	// ascending) for the contracts at the given strike.
	OptionExpirations(symbol string, strike float64) ([]string, error)

	// OptionQuote snapshots one option contract.
	OptionQuote(symbol, expiration string, strike float64, right Right) (model.OptionQuote, error)

	// DailyBars returns up to days daily bars ending at the given date.
	// Non-trading days are simply absent.
	DailyBars(symbol string, end time.Time, days int) ([]model.OHLCV, error)
}
