package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"EarningsSentinel/internal/model"
)

// Provider fetches earnings calendar entries from an external source.
// Absence of data and transport failures both yield an empty list; providers
// never surface errors to the cache.
type Provider interface {
	Calendar(symbol string, from, to time.Time) []model.EarningsEvent
}

const defaultFinnhubBase = "https://finnhub.io/api/v1"

// Finnhub implements Provider against the Finnhub earnings calendar endpoint.
type Finnhub struct {
	BaseURL string
	Token   string
	Client  *http.Client

	// Free-tier Finnhub allows 60 calls/min; pace well under that.
	limiter *rate.Limiter
}

// NewFinnhub creates a rate-limited Finnhub client. An empty baseURL selects
// the production API.
func NewFinnhub(baseURL, token string) *Finnhub {
	if baseURL == "" {
		baseURL = defaultFinnhubBase
	}
	return &Finnhub{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(1100*time.Millisecond), 2),
	}
}

// finnhubCalendar is the expected JSON shape from the calendar endpoint.
type finnhubCalendar struct {
	EarningsCalendar []struct {
		Symbol string `json:"symbol"`
		Date   string `json:"date"`
		Hour   string `json:"hour"`
	} `json:"earningsCalendar"`
}

// Calendar fetches events for one symbol and date range. Any failure
// (transport, non-200 status, malformed payload) is logged and mapped to an
// empty list.
func (f *Finnhub) Calendar(symbol string, from, to time.Time) []model.EarningsEvent {
	if err := f.limiter.Wait(context.Background()); err != nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/calendar/earnings?from=%s&to=%s&symbol=%s&token=%s",
		f.BaseURL,
		from.Format(model.DateLayout),
		to.Format(model.DateLayout),
		url.QueryEscape(symbol),
		url.QueryEscape(f.Token),
	)

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		log.Printf("[WARN] finnhub calendar %s: %v", symbol, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] finnhub calendar %s: status %d", symbol, resp.StatusCode)
		return nil
	}

	var cal finnhubCalendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		log.Printf("[WARN] finnhub calendar %s: decode: %v", symbol, err)
		return nil
	}

	events := make([]model.EarningsEvent, 0, len(cal.EarningsCalendar))
	for _, e := range cal.EarningsCalendar {
		if e.Date == "" {
			continue
		}
		events = append(events, model.EarningsEvent{
			Symbol: e.Symbol,
			Date:   e.Date,
			Hour:   model.NormalizeHour(e.Hour),
		})
	}
	return events
}
