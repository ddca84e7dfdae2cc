package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"EarningsSentinel/internal/model"
)

// SQLiteRecorder persists scan runs to a SQLite database: one header row per
// run plus one row per opportunity, linked by scan id.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS straddle_scans (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			scan_date          TEXT,
			universe_size      INTEGER,
			earnings_found     INTEGER,
			candidates_scanned INTEGER,
			total_candidate    INTEGER,
			total_watch        INTEGER,
			total_pass         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_straddle_ts ON straddle_scans(timestamp)`,

		`CREATE TABLE IF NOT EXISTS straddle_opportunities (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id          INTEGER NOT NULL,
			ticker           TEXT NOT NULL,
			price            REAL,
			earnings_date    TEXT,
			days_to_earnings INTEGER,
			expiry           TEXT,
			expiry_dte       INTEGER,
			strike           REAL,
			call_mid         REAL,
			put_mid          REAL,
			straddle_mid     REAL,
			implied_move_pct REAL,
			realized_avg_pct REAL,
			ratio_to_avg     REAL,
			score            REAL,
			recommendation   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_straddle_opp_scan ON straddle_opportunities(scan_id)`,

		`CREATE TABLE IF NOT EXISTS crush_scans (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			scan_date         TEXT,
			total_scanned     INTEGER,
			earnings_found    INTEGER,
			total_recommended INTEGER,
			total_consider    INTEGER,
			total_avoid       INTEGER,
			avg_iv            REAL,
			avg_expected_move REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crush_ts ON crush_scans(timestamp)`,

		`CREATE TABLE IF NOT EXISTS crush_opportunities (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id           INTEGER NOT NULL,
			ticker            TEXT NOT NULL,
			price             REAL,
			earnings_date     TEXT,
			days_to_earnings  INTEGER,
			front_iv          REAL,
			back_iv           REAL,
			iv_slope_pct      REAL,
			expected_move_pct REAL,
			strike            REAL,
			sell_expiration   TEXT,
			buy_expiration    TEXT,
			net_credit        REAL,
			recommendation    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crush_opp_scan ON crush_opportunities(scan_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordStraddleScan(res *model.StraddleScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec(`INSERT INTO straddle_scans
		(timestamp, scan_date, universe_size, earnings_found, candidates_scanned,
		 total_candidate, total_watch, total_pass)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Date, res.UniverseSize, res.EarningsFound,
		res.CandidatesScanned,
		res.Summary.TotalCandidate, res.Summary.TotalWatch, res.Summary.TotalPass,
	)
	if err != nil {
		return err
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, o := range res.Opportunities {
		_, err := r.db.Exec(`INSERT INTO straddle_opportunities
			(scan_id, ticker, price, earnings_date, days_to_earnings,
			 expiry, expiry_dte, strike, call_mid, put_mid, straddle_mid,
			 implied_move_pct, realized_avg_pct, ratio_to_avg, score, recommendation)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			scanID, o.Ticker, o.Price, o.EarningsDate, o.DaysToEarnings,
			o.Expiry, o.ExpiryDTE, o.Strike, o.CallMid, o.PutMid, o.StraddleMid,
			o.ImpliedMovePct, nullable(o.RealizedMoveAvgPct), nullable(o.RatioToAvg),
			nullable(o.Score), string(o.Recommendation),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCrushScan(res *model.CrushScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec(`INSERT INTO crush_scans
		(timestamp, scan_date, total_scanned, earnings_found,
		 total_recommended, total_consider, total_avoid, avg_iv, avg_expected_move)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Date, res.TotalScanned, res.EarningsFound,
		res.Summary.TotalRecommended, res.Summary.TotalConsider, res.Summary.TotalAvoid,
		res.Summary.AvgIV, res.Summary.AvgExpectedMove,
	)
	if err != nil {
		return err
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, o := range res.Opportunities {
		_, err := r.db.Exec(`INSERT INTO crush_opportunities
			(scan_id, ticker, price, earnings_date, days_to_earnings,
			 front_iv, back_iv, iv_slope_pct, expected_move_pct,
			 strike, sell_expiration, buy_expiration, net_credit, recommendation)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			scanID, o.Ticker, o.Price, o.EarningsDate, o.DaysToEarnings,
			o.IV, o.BackIV, o.Criteria.IVSlopePct, o.ExpectedMovePct,
			o.SuggestedTrade.Strike, o.SuggestedTrade.SellExpiration,
			o.SuggestedTrade.BuyExpiration, o.SuggestedTrade.NetCredit,
			string(o.Recommendation),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// nullable maps an absent statistic onto SQL NULL.
func nullable(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
