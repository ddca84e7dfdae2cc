package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Finnhub struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"finnhub"`
	IB struct {
		GatewayURL          string `yaml:"gateway_url"`
		SnapshotWaitSeconds int    `yaml:"snapshot_wait_seconds"`
	} `yaml:"ib"`
	Cache struct {
		File       string `yaml:"file"`
		TTLSeconds int    `yaml:"ttl_seconds"`
		MaxEntries int    `yaml:"max_entries"`
		PruneCount int    `yaml:"prune_count"`
	} `yaml:"cache"`
	Scan struct {
		EntryTargetDays int      `yaml:"entry_target_days"`
		EntryWindowDays int      `yaml:"entry_window_days"`
		LookaheadDays   int      `yaml:"lookahead_days"`
		CrushDaysAhead  int      `yaml:"crush_days_ahead"`
		MaxSpreadRatio  float64  `yaml:"max_spread_ratio"`
		PauseMillis     int      `yaml:"pause_millis"`
		Universe        []string `yaml:"universe"`
	} `yaml:"scan"`
	History struct {
		LookbackDays int `yaml:"lookback_days"`
		MaxEvents    int `yaml:"max_events"`
	} `yaml:"history"`
	Schedule struct {
		StraddleCron string `yaml:"straddle_cron"`
		CrushCron    string `yaml:"crush_cron"`
	} `yaml:"schedule"`
	Output struct {
		StraddleFile string `yaml:"straddle_file"`
		CrushFile    string `yaml:"crush_file"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	YahooCrossCheck bool `yaml:"yahoo_cross_check"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("IB_GATEWAY_URL"); v != "" {
		cfg.IB.GatewayURL = v
	}
	if v := os.Getenv("EARNINGS_CALENDAR_CACHE_FILE"); v != "" {
		cfg.Cache.File = v
	}
	if v := os.Getenv("EARNINGS_CALENDAR_CACHE_TTL_SECONDS"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.Cache.TTLSeconds = ttl
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_STRADDLE"); v != "" {
		cfg.Schedule.StraddleCron = v
	}
	if v := os.Getenv("CRON_CRUSH"); v != "" {
		cfg.Schedule.CrushCron = v
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.IB.SnapshotWaitSeconds == 0 {
		c.IB.SnapshotWaitSeconds = 2
	}
	if c.Cache.File == "" {
		c.Cache.File = "data/earnings_calendar_cache.json"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 21600
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 4000
	}
	if c.Cache.PruneCount == 0 {
		c.Cache.PruneCount = 500
	}
	if c.Scan.EntryTargetDays == 0 {
		c.Scan.EntryTargetDays = 14
	}
	if c.Scan.EntryWindowDays == 0 {
		c.Scan.EntryWindowDays = 3
	}
	if c.Scan.LookaheadDays == 0 {
		c.Scan.LookaheadDays = 45
	}
	if c.Scan.CrushDaysAhead == 0 {
		c.Scan.CrushDaysAhead = 30
	}
	if c.Scan.MaxSpreadRatio == 0 {
		c.Scan.MaxSpreadRatio = 0.35
	}
	if c.Scan.PauseMillis == 0 {
		c.Scan.PauseMillis = 500
	}
	if c.History.LookbackDays == 0 {
		c.History.LookbackDays = 730
	}
	if c.History.MaxEvents == 0 {
		c.History.MaxEvents = 6
	}
	if c.Schedule.StraddleCron == "" {
		// Weekday mornings, before the open.
		c.Schedule.StraddleCron = "0 0 9 * * 1-5"
	}
	if c.Schedule.CrushCron == "" {
		c.Schedule.CrushCron = "0 30 9 * * 1-5"
	}
	if c.Output.StraddleFile == "" {
		c.Output.StraddleFile = "data/pre_earnings_straddle_latest.json"
	}
	if c.Output.CrushFile == "" {
		c.Output.CrushFile = "data/earnings_crush_latest.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/earnings_sentinel.db"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required (set FINNHUB_API_KEY)")
	}
	if c.Scan.MaxSpreadRatio <= 0 || c.Scan.MaxSpreadRatio > 1 {
		return fmt.Errorf("scan.max_spread_ratio must be in (0, 1]")
	}
	if c.Scan.EntryWindowDays >= c.Scan.EntryTargetDays {
		return fmt.Errorf("scan.entry_window_days must be smaller than entry_target_days")
	}
	return nil
}

// CacheTTL returns the calendar cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// SnapshotWait returns the market data snapshot wait as a duration.
func (c *Config) SnapshotWait() time.Duration {
	return time.Duration(c.IB.SnapshotWaitSeconds) * time.Second
}

// ScanPause returns the inter-ticker pacing pause as a duration.
func (c *Config) ScanPause() time.Duration {
	return time.Duration(c.Scan.PauseMillis) * time.Millisecond
}
