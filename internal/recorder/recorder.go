package recorder

import "EarningsSentinel/internal/model"

// Recorder persists scan runs for later analysis.
type Recorder interface {
	RecordStraddleScan(res *model.StraddleScanResult) error
	RecordCrushScan(res *model.CrushScanResult) error
	Close() error
}
