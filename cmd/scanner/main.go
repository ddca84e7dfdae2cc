package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"EarningsSentinel/internal/calendar"
	"EarningsSentinel/internal/config"
	"EarningsSentinel/internal/history"
	"EarningsSentinel/internal/market"
	"EarningsSentinel/internal/recorder"
	"EarningsSentinel/internal/report"
	"EarningsSentinel/internal/scanner"
	"EarningsSentinel/internal/scheduler"
	"EarningsSentinel/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] EarningsSentinel starting...")

	cfgPath := flag.String("config", "configs/config.yaml", "path to YAML config")
	once := flag.Bool("once", false, "run the scan once and exit")
	mode := flag.String("mode", "straddle", "scan mode for -once: straddle, crush, or both")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Earnings calendar: Finnhub behind the persistent TTL cache, optionally
	// cross-checked against Yahoo.
	provider := calendar.NewFinnhub(cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey)
	store := calendar.NewFileStore(cfg.Cache.File)
	var secondary calendar.SecondarySource
	if cfg.YahooCrossCheck {
		secondary = calendar.NewYahooSource()
		log.Println("[INFO] yahoo earnings-date cross-check enabled")
	}
	cal := calendar.NewCache(store, provider, calendar.Options{
		TTL:        cfg.CacheTTL(),
		MaxEntries: cfg.Cache.MaxEntries,
		PruneCount: cfg.Cache.PruneCount,
		Secondary:  secondary,
	})
	log.Printf("[INFO] calendar cache: %s (ttl %s)", cfg.Cache.File, cfg.CacheTTL())

	// Market data through the IB Client Portal gateway.
	data := market.NewIBClient(cfg.IB.GatewayURL, cfg.SnapshotWait())
	log.Printf("[INFO] market data: %s", data.BaseURL)

	est := history.NewEstimator(cal, data)
	est.LookbackDays = cfg.History.LookbackDays
	est.MaxEvents = cfg.History.MaxEvents

	tickers := universe.Default()
	if len(cfg.Scan.Universe) > 0 {
		tickers = universe.Normalize(cfg.Scan.Universe)
	}
	log.Printf("[INFO] scan universe: %d tickers", len(tickers))

	sc := scanner.New(cal, data, est, tickers)
	sc.EntryTargetDays = cfg.Scan.EntryTargetDays
	sc.EntryWindowDays = cfg.Scan.EntryWindowDays
	sc.LookaheadDays = cfg.Scan.LookaheadDays
	sc.CrushDaysAhead = cfg.Scan.CrushDaysAhead
	sc.MaxSpreadRatio = cfg.Scan.MaxSpreadRatio
	sc.Pause = cfg.ScanPause()

	// Recorder: sqlite when configured, noop otherwise.
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sched := scheduler.NewScheduler(sc, rec, report.NewConsole(),
		cfg.Output.StraddleFile, cfg.Output.CrushFile)

	if *once {
		switch *mode {
		case "straddle":
			sched.StraddleTask()
		case "crush":
			sched.CrushTask()
		case "both":
			sched.StraddleTask()
			sched.CrushTask()
		default:
			log.Fatalf("[FATAL] unknown mode %q (want straddle, crush, or both)", *mode)
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.StraddleCron, cfg.Schedule.CrushCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing straddle scan now")
		go sched.StraddleTask()
	}

	log.Println("[INFO] EarningsSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	log.Println("[INFO] EarningsSentinel stopped")
}
