package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/calendar"
	"HeadlineSentinel/internal/model"
)

// CSVRecorder writes results as filtered_headlines_<M-D-YYYY>.csv.
type CSVRecorder struct {
	Dir string
}

// NewCSVRecorder creates the output directory if needed.
func NewCSVRecorder(dir string) (*CSVRecorder, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output dir")
	}
	return &CSVRecorder{Dir: dir}, nil
}

// RecordScan writes to a temporary file and renames it into place.
func (r *CSVRecorder) RecordScan(res *model.ScanResult) (string, error) {
	path := filepath.Join(r.Dir, calendar.OutputFileName(res.RawDate))

	tmp, err := os.CreateTemp(r.Dir, ".filtered_headlines_*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(res.Table.Columns); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "write header")
	}
	if err := w.WriteAll(res.Table.Rows); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "write rows")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(err, "rename output")
	}

	log.Info().Str("path", path).Int("rows", res.Table.Len()).Msg("results saved")
	return path, nil
}

func (r *CSVRecorder) Close() error { return nil }
