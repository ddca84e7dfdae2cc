package market

import (
	"fmt"
	"time"

	"EarningsSentinel/internal/model"
)

// MockData is an in-memory Data implementation for tests and offline runs.
// Quotes are keyed by contract; anything not seeded returns an error, the
// same way a live gateway reports an unknown instrument.
type MockData struct {
	Prices      map[string]float64
	Expirations map[string][]string              // symbol -> YYYYMMDD list
	Quotes      map[string]model.OptionQuote     // quoteKey -> quote
	Bars        map[string][]model.OHLCV         // symbol -> ascending daily bars
	Errors      map[string]error                 // symbol -> forced failure
}

func NewMockData() *MockData {
	return &MockData{
		Prices:      map[string]float64{},
		Expirations: map[string][]string{},
		Quotes:      map[string]model.OptionQuote{},
		Bars:        map[string][]model.OHLCV{},
		Errors:      map[string]error{},
	}
}

func quoteKey(symbol, expiration string, strike float64, right Right) string {
	return fmt.Sprintf("%s|%s|%g|%s", symbol, expiration, strike, right)
}

// SetQuote seeds one option quote.
func (m *MockData) SetQuote(symbol, expiration string, strike float64, right Right, q model.OptionQuote) {
	q.Strike = strike
	q.Expiration = expiration
	m.Quotes[quoteKey(symbol, expiration, strike, right)] = q
}

func (m *MockData) StockPrice(symbol string) (float64, error) {
	if err := m.Errors[symbol]; err != nil {
		return 0, err
	}
	p, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	return p, nil
}

func (m *MockData) OptionExpirations(symbol string, strike float64) ([]string, error) {
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	exps, ok := m.Expirations[symbol]
	if !ok {
		return nil, fmt.Errorf("no option months for %s", symbol)
	}
	return exps, nil
}

func (m *MockData) OptionQuote(symbol, expiration string, strike float64, right Right) (model.OptionQuote, error) {
	if err := m.Errors[symbol]; err != nil {
		return model.OptionQuote{}, err
	}
	q, ok := m.Quotes[quoteKey(symbol, expiration, strike, right)]
	if !ok {
		return model.OptionQuote{}, fmt.Errorf("no %s %s %.2f%s contract", symbol, expiration, strike, right)
	}
	return q, nil
}

func (m *MockData) DailyBars(symbol string, end time.Time, days int) ([]model.OHLCV, error) {
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	bars := m.Bars[symbol]
	var out []model.OHLCV
	for _, b := range bars {
		if !b.Time.After(end) {
			out = append(out, b)
		}
	}
	if len(out) > days {
		out = out[len(out)-days:]
	}
	return out, nil
}
