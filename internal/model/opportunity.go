package model

// Recommendation is an actionable label attached to a scanned opportunity.
// The straddle relative-value scan uses CANDIDATE/WATCH/PASS; the IV-crush
// (term structure) scan uses RECOMMENDED/CONSIDER/AVOID. The two policies are
// intentionally kept distinct.
type Recommendation string

const (
	RecCandidate Recommendation = "CANDIDATE"
	RecWatch     Recommendation = "WATCH"
	RecPass      Recommendation = "PASS"

	RecRecommended Recommendation = "RECOMMENDED"
	RecConsider    Recommendation = "CONSIDER"
	RecAvoid       Recommendation = "AVOID"
)

// Opportunity is one scored pre-earnings straddle candidate. Created once per
// scan per qualifying ticker and never mutated afterwards. Pointer fields are
// null in the output document when the underlying statistic is undefined.
type Opportunity struct {
	Ticker             string           `json:"ticker"`
	Price              float64          `json:"price"`
	EarningsDate       string           `json:"earnings_date"`
	DaysToEarnings     int              `json:"days_to_earnings"`
	Expiry             string           `json:"expiry"` // DateLayout
	ExpiryDTE          int              `json:"expiry_dte"`
	ExpiryIsMonthly    bool             `json:"expiry_is_monthly"`
	Strike             float64          `json:"strike"`
	CallMid            float64          `json:"call_mid"`
	PutMid             float64          `json:"put_mid"`
	StraddleMid        float64          `json:"straddle_mid"`
	ImpliedMovePct     float64          `json:"implied_move_pct"`
	HistoricalMoves    []HistoricalMove `json:"historical_realized_moves"`
	RealizedMoveAvgPct *float64         `json:"realized_move_avg_pct"`
	RealizedMoveLastPct *float64        `json:"realized_move_last_pct"`
	RatioToAvg         *float64         `json:"ratio_implied_to_avg_realized"`
	RatioToLast        *float64         `json:"ratio_implied_to_last_realized"`
	Score              *float64         `json:"score"`
	Recommendation     Recommendation   `json:"recommendation"`
}

// StraddleSummary aggregates recommendation counts for a straddle scan.
type StraddleSummary struct {
	TotalOpportunities int `json:"total_opportunities"`
	TotalCandidate     int `json:"total_candidate"`
	TotalWatch         int `json:"total_watch"`
	TotalPass          int `json:"total_pass"`
}

// StraddleScanResult is the persisted document for one straddle scan run.
type StraddleScanResult struct {
	Timestamp         string          `json:"timestamp"` // RFC 3339
	Date              string          `json:"date"`      // DateLayout
	EntryTargetDays   int             `json:"entry_target_days"`
	EntryWindowDays   int             `json:"entry_window_days"`
	UniverseSize      int             `json:"universe_size"`
	EarningsFound     int             `json:"earnings_found"`
	CandidatesScanned int             `json:"candidates_scanned"`
	Opportunities     []Opportunity   `json:"opportunities"`
	Summary           StraddleSummary `json:"summary"`
}

// SuggestedTrade describes the calendar-spread legs for an IV-crush candidate:
// sell the front expiration, buy the back one, same strike.
type SuggestedTrade struct {
	Strike         float64 `json:"strike"`
	SellExpiration string  `json:"sell_expiration"` // DateLayout
	BuyExpiration  string  `json:"buy_expiration"`  // DateLayout
	SellDTE        int     `json:"sell_dte"`
	BuyDTE         int     `json:"buy_dte"`
	SellPrice      float64 `json:"sell_price"`
	BuyPrice       float64 `json:"buy_price"`
	NetCredit      float64 `json:"net_credit"`
}

// CrushCriteria records the inputs behind a term-structure recommendation.
type CrushCriteria struct {
	HighIV          bool    `json:"high_iv"`
	TSSlopePositive bool    `json:"ts_slope_positive"`
	IVSlopePct      float64 `json:"iv_slope_pct"`
}

// CrushOpportunity is one scored IV-crush (calendar spread) candidate.
type CrushOpportunity struct {
	Ticker          string         `json:"ticker"`
	Price           float64        `json:"price"`
	EarningsDate    string         `json:"earnings_date"`
	DaysToEarnings  int            `json:"days_to_earnings"`
	IV              float64        `json:"iv"` // front-month ATM IV, percent
	BackIV          float64        `json:"back_iv"`
	ExpectedMove    float64        `json:"expected_move"`
	ExpectedMovePct float64        `json:"expected_move_pct"`
	Criteria        CrushCriteria  `json:"criteria"`
	SuggestedTrade  SuggestedTrade `json:"suggested_trade"`
	Recommendation  Recommendation `json:"recommendation"`
}

// CrushSummary aggregates recommendation counts for a crush scan.
type CrushSummary struct {
	TotalRecommended int     `json:"total_recommended"`
	TotalConsider    int     `json:"total_consider"`
	TotalAvoid       int     `json:"total_avoid"`
	AvgIV            float64 `json:"avg_iv"`
	AvgExpectedMove  float64 `json:"avg_expected_move"`
}

// CrushScanResult is the persisted document for one IV-crush scan run.
type CrushScanResult struct {
	Timestamp     string             `json:"timestamp"`
	Date          string             `json:"date"`
	TotalScanned  int                `json:"total_scanned"`
	EarningsFound int                `json:"earnings_found"`
	Opportunities []CrushOpportunity `json:"opportunities"`
	Summary       CrushSummary       `json:"summary"`
}
