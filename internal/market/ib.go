package market

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"EarningsSentinel/internal/model"
)

const (
	defaultIBBase = "https://localhost:5001/v1/api"

	// How far ahead we resolve option months when listing expirations.
	expirationHorizonDays = 120
)

// IBClient implements Data against the IBKR Client Portal gateway REST API.
//
// Snapshots follow the gateway's subscribe/wait/read protocol: the first
// request primes the market data stream, a fixed wait lets the gateway
// populate values, the second request reads whatever is available at that
// instant, and the subscription is released. There is no retry-until-populated
// loop; a slow feed shows up as a partial quote and the ticker gets skipped.
type IBClient struct {
	BaseURL string
	Client  *http.Client

	// SnapshotWait is the fixed pause between priming and reading a snapshot.
	SnapshotWait time.Duration

	limiter *rate.Limiter

	mu     sync.Mutex
	conids map[string]int
}

// NewIBClient creates a client for the Client Portal gateway. An empty
// baseURL selects the default local gateway; TLS verification is skipped
// because the gateway serves a self-signed certificate on localhost.
func NewIBClient(baseURL string, snapshotWait time.Duration) *IBClient {
	if baseURL == "" {
		baseURL = defaultIBBase
	}
	if snapshotWait <= 0 {
		snapshotWait = 2 * time.Second
	}
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &IBClient{
		BaseURL:      baseURL,
		Client:       &http.Client{Transport: tr, Timeout: 30 * time.Second},
		SnapshotWait: snapshotWait,
		limiter:      rate.NewLimiter(5, 5),
		conids:       map[string]int{},
	}
}

func (c *IBClient) getJSON(path string, out any) error {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return err
	}
	resp, err := c.Client.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// searchResult is the secdef search response shape; conid arrives as a string.
type searchResult struct {
	ConID    string `json:"conid"`
	Symbol   string `json:"symbol"`
	Sections []struct {
		SecType string `json:"secType"`
		Months  string `json:"months"`
	} `json:"sections"`
}

// resolve returns the stock conid for a symbol, caching lookups.
func (c *IBClient) resolve(symbol string) (int, error) {
	c.mu.Lock()
	if id, ok := c.conids[symbol]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	conid, _, err := c.searchUnderlying(symbol)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.conids[symbol] = conid
	c.mu.Unlock()
	return conid, nil
}

// searchUnderlying resolves a symbol to its conid and option months.
func (c *IBClient) searchUnderlying(symbol string) (int, []string, error) {
	var results []searchResult
	if err := c.getJSON("/iserver/secdef/search?symbol="+symbol, &results); err != nil {
		return 0, nil, fmt.Errorf("secdef search %s: %w", symbol, err)
	}
	if len(results) == 0 {
		return 0, nil, fmt.Errorf("symbol not found: %s", symbol)
	}

	first := results[0]
	conid, err := strconv.Atoi(first.ConID)
	if err != nil {
		return 0, nil, fmt.Errorf("parse conid %q: %w", first.ConID, err)
	}

	var months []string
	for _, section := range first.Sections {
		if section.SecType == "OPT" && section.Months != "" {
			months = strings.Split(section.Months, ";")
			break
		}
	}
	return conid, months, nil
}

// snapshot subscribes to market data for conid, waits the fixed interval,
// reads the best-available values for the requested fields, and releases the
// subscription.
func (c *IBClient) snapshot(conid int, fields string) (map[string]any, error) {
	path := fmt.Sprintf("/iserver/marketdata/snapshot?conids=%d&fields=%s", conid, fields)

	// Prime the stream; the first response is usually empty.
	var primed []map[string]any
	_ = c.getJSON(path, &primed)

	time.Sleep(c.SnapshotWait)

	var data []map[string]any
	if err := c.getJSON(path, &data); err != nil {
		return nil, fmt.Errorf("snapshot conid %d: %w", conid, err)
	}

	// Release the subscription; failures here are harmless.
	var unsub any
	_ = c.getJSON(fmt.Sprintf("/iserver/marketdata/%d/unsubscribe", conid), &unsub)

	if len(data) == 0 {
		return nil, fmt.Errorf("empty snapshot for conid %d", conid)
	}
	return data[0], nil
}

// fieldFloat extracts a numeric market data field. The gateway returns
// numbers, strings, or {"v": value} wrappers depending on the field.
func fieldFloat(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(strings.TrimPrefix(v, "C"), 64)
		return f
	case map[string]any:
		if inner, ok := v["v"]; ok {
			return fieldFloat(inner)
		}
	}
	return 0
}

// StockPrice snapshots the last price (field 31) for a stock.
func (c *IBClient) StockPrice(symbol string) (float64, error) {
	conid, err := c.resolve(symbol)
	if err != nil {
		return 0, err
	}
	snap, err := c.snapshot(conid, "31")
	if err != nil {
		return 0, err
	}
	price := fieldFloat(snap["31"])
	if price <= 0 {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	return price, nil
}

// monthKey formats a YYYYMMDD expiration or month date as the gateway's
// option-month token ("JAN24").
func monthKey(t time.Time) string {
	return strings.ToUpper(t.Format("Jan06"))
}

func parseMonthToken(token string) (time.Time, error) {
	if len(token) < 5 {
		return time.Time{}, fmt.Errorf("invalid month token: %s", token)
	}
	return time.Parse("Jan06", token[:1]+strings.ToLower(token[1:5]))
}

// contractInfo is the secdef info response shape for one option contract.
type contractInfo struct {
	ConID        int     `json:"conid"`
	Strike       float64 `json:"strike"`
	Right        string  `json:"right"`
	MaturityDate string  `json:"maturityDate"` // YYYYMMDD
}

// contractsFor fetches the option contracts for one month/strike/right.
func (c *IBClient) contractsFor(conid int, month string, strike float64, right Right) ([]contractInfo, error) {
	path := fmt.Sprintf("/iserver/secdef/info?conid=%d&sectype=OPT&month=%s&strike=%s&right=%s",
		conid, month, strconv.FormatFloat(strike, 'f', -1, 64), right)
	var contracts []contractInfo
	if err := c.getJSON(path, &contracts); err != nil {
		return nil, fmt.Errorf("secdef info %s %s: %w", month, right, err)
	}
	return contracts, nil
}

// OptionExpirations lists the exact expirations available at the given strike
// within the resolution horizon, ascending.
func (c *IBClient) OptionExpirations(symbol string, strike float64) ([]string, error) {
	conid, months, err := c.searchUnderlying(symbol)
	if err != nil {
		return nil, err
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("no option months for %s", symbol)
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, expirationHorizonDays)

	seen := map[string]bool{}
	var expirations []string
	for _, token := range months {
		monthDate, err := parseMonthToken(token)
		if err != nil {
			continue
		}
		// Skip months entirely outside the horizon.
		if monthDate.After(horizon) || monthDate.Before(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)) {
			continue
		}

		contracts, err := c.contractsFor(conid, token, strike, RightCall)
		if err != nil {
			continue // months without contracts at this strike are common
		}
		for _, contract := range contracts {
			if len(contract.MaturityDate) == 8 && !seen[contract.MaturityDate] {
				seen[contract.MaturityDate] = true
				expirations = append(expirations, contract.MaturityDate)
			}
		}
	}

	sort.Strings(expirations)
	return expirations, nil
}

// OptionQuote snapshots bid/ask/last and model IV for one option contract.
func (c *IBClient) OptionQuote(symbol, expiration string, strike float64, right Right) (model.OptionQuote, error) {
	conid, err := c.resolve(symbol)
	if err != nil {
		return model.OptionQuote{}, err
	}

	expDate, err := time.Parse("20060102", expiration)
	if err != nil {
		return model.OptionQuote{}, fmt.Errorf("bad expiration %q: %w", expiration, err)
	}

	contracts, err := c.contractsFor(conid, monthKey(expDate), strike, right)
	if err != nil {
		return model.OptionQuote{}, err
	}
	optionConID := 0
	for _, contract := range contracts {
		if contract.MaturityDate == expiration {
			optionConID = contract.ConID
			break
		}
	}
	if optionConID == 0 {
		return model.OptionQuote{}, fmt.Errorf("no %s %s %.2f%s contract", symbol, expiration, strike, right)
	}

	// 31 = last, 84 = bid, 86 = ask, 7283 = model implied vol.
	snap, err := c.snapshot(optionConID, "31,84,86,7283")
	if err != nil {
		return model.OptionQuote{}, err
	}

	return model.OptionQuote{
		Strike:     strike,
		Expiration: expiration,
		Bid:        fieldFloat(snap["84"]),
		Ask:        fieldFloat(snap["86"]),
		Last:       fieldFloat(snap["31"]),
		ImpliedVol: fieldFloat(snap["7283"]),
	}, nil
}

// historyResponse is the marketdata history response shape; t is unix millis.
type historyResponse struct {
	Data []struct {
		T int64   `json:"t"`
		O float64 `json:"o"`
		C float64 `json:"c"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		V float64 `json:"v"`
	} `json:"data"`
}

// DailyBars fetches daily bars ending at the given date. The gateway anchors
// the period at startTime and walks backwards.
func (c *IBClient) DailyBars(symbol string, end time.Time, days int) ([]model.OHLCV, error) {
	conid, err := c.resolve(symbol)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/iserver/marketdata/history?conid=%d&period=%dd&bar=1d&outsideRth=false&startTime=%s",
		conid, days, end.Format("20060102-15:04:05"))

	var hist historyResponse
	if err := c.getJSON(path, &hist); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}

	bars := make([]model.OHLCV, 0, len(hist.Data))
	for _, d := range hist.Data {
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(d.T).UTC(),
			Open:   d.O,
			High:   d.H,
			Low:    d.L,
			Close:  d.C,
			Volume: d.V,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
