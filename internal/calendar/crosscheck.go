package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// mismatchWarnDays is the disagreement threshold for the advisory warning.
const mismatchWarnDays = 4

// SecondarySource is an independent earnings-date source consulted at most
// once per lookup, only to cross-check the primary provider. Its answer never
// changes what the cache returns.
type SecondarySource interface {
	NextEarningsDate(symbol string) (time.Time, bool)
}

// YahooSource implements SecondarySource using the Yahoo Finance
// quoteSummary calendarEvents module.
type YahooSource struct {
	Client *http.Client
}

func NewYahooSource() *YahooSource {
	return &YahooSource{Client: &http.Client{Timeout: 15 * time.Second}}
}

// yahooSummary is the subset of the quoteSummary response we read.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents struct {
				Earnings struct {
					EarningsDate []struct {
						Raw int64 `json:"raw"`
					} `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// NextEarningsDate fetches Yahoo's next scheduled earnings date for symbol.
// Any failure reports no date; this source is advisory only.
func (y *YahooSource) NextEarningsDate(symbol string) (time.Time, bool) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=calendarEvents",
		url.PathEscape(symbol))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return time.Time{}, false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return time.Time{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, false
	}
	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return time.Time{}, false
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return time.Time{}, false
	}
	dates := summary.QuoteSummary.Result[0].CalendarEvents.Earnings.EarningsDate
	if len(dates) == 0 || dates[0].Raw == 0 {
		return time.Time{}, false
	}
	return time.Unix(dates[0].Raw, 0).UTC(), true
}
