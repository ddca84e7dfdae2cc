package recorder

import "EarningsSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordStraddleScan(_ *model.StraddleScanResult) error { return nil }
func (n *NoopRecorder) RecordCrushScan(_ *model.CrushScanResult) error       { return nil }
func (n *NoopRecorder) Close() error                                         { return nil }
