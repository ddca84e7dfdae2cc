package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"EarningsSentinel/internal/recorder"
	"EarningsSentinel/internal/report"
	"EarningsSentinel/internal/scanner"
)

// Scheduler manages the scan cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Recorder recorder.Recorder
	Console  *report.Console

	StraddleFile string
	CrushFile    string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(sc *scanner.Scanner, rec recorder.Recorder, console *report.Console, straddleFile, crushFile string) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Scanner:      sc,
		Recorder:     rec,
		Console:      console,
		StraddleFile: straddleFile,
		CrushFile:    crushFile,
	}
}

// RegisterAll registers the straddle and crush scan tasks.
func (s *Scheduler) RegisterAll(straddleCron, crushCron string) error {
	if _, err := s.Cron.AddFunc(straddleCron, s.StraddleTask); err != nil {
		return fmt.Errorf("register straddle task: %w", err)
	}
	if _, err := s.Cron.AddFunc(crushCron, s.CrushTask); err != nil {
		return fmt.Errorf("register crush task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// StraddleTask runs the straddle scan, writes the result document, renders
// the console table, and records the run.
func (s *Scheduler) StraddleTask() {
	log.Println("[INFO] running pre-earnings straddle scan")
	res := s.Scanner.StraddleScan()

	if err := report.WriteJSON(s.StraddleFile, &res); err != nil {
		log.Printf("[ERROR] write straddle result: %v", err)
	} else {
		log.Printf("[INFO] straddle result written: %s", s.StraddleFile)
	}

	s.Console.PrintStraddle(&res)

	if err := s.Recorder.RecordStraddleScan(&res); err != nil {
		log.Printf("[ERROR] record straddle scan: %v", err)
	}
}

// CrushTask runs the IV-crush scan, writes the result document, renders the
// console table, and records the run.
func (s *Scheduler) CrushTask() {
	log.Println("[INFO] running earnings IV-crush scan")
	res := s.Scanner.CrushScan()

	if err := report.WriteJSON(s.CrushFile, &res); err != nil {
		log.Printf("[ERROR] write crush result: %v", err)
	} else {
		log.Printf("[INFO] crush result written: %s", s.CrushFile)
	}

	s.Console.PrintCrush(&res)

	if err := s.Recorder.RecordCrushScan(&res); err != nil {
		log.Printf("[ERROR] record crush scan: %v", err)
	}
}
