package recorder

import "HeadlineSentinel/internal/model"

// Recorder persists a scan result on request.
type Recorder interface {
	// RecordScan writes res and returns the location written to.
	RecordScan(res *model.ScanResult) (string, error)
	Close() error
}
