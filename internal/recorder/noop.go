package recorder

import "HeadlineSentinel/internal/model"

// NoopRecorder is used when saving is declined.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *model.ScanResult) (string, error) { return "", nil }
func (n *NoopRecorder) Close() error                                  { return nil }
