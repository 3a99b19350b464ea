package collector

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/calendar"
	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/selector"
)

// ErrMissingColumn is returned when a price table lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// ReadTable reads a tab-separated file with a header row.
func ReadTable(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := readDelimited(f, '\t')
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}

func readDelimited(r io.Reader, sep rune) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &model.Table{Columns: dedupeColumns(header)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// dedupeColumns renames repeated header names to name.1, name.2 and so on,
// skipping any suffixed name already taken.
func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, col := range header {
		n := counts[col]
		for n > 0 {
			counts[col] = n + 1
			col = col + "." + strconv.Itoa(n)
			n = counts[col]
		}
		out[i] = col
		counts[col] = n + 1
	}
	return out
}

// nullMarkers are cell values read as missing, alongside the empty string.
var nullMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// isNull reports whether a trimmed cell is missing.
func isNull(v string) bool {
	if v == "" {
		return true
	}
	_, ok := nullMarkers[v]
	return ok
}

// ParsePriceTable converts a table with date, close and a symbol-like
// column into observations. Rows with a missing date or close are skipped.
func ParsePriceTable(t *model.Table) ([]model.PriceObservation, error) {
	dateCol := columnByName(t.Columns, "date")
	closeCol := columnByName(t.Columns, "close")
	symCol := selector.PriceSymbolColumn(t.Columns)
	switch {
	case dateCol < 0:
		return nil, errors.Wrap(ErrMissingColumn, "price table: date")
	case closeCol < 0:
		return nil, errors.Wrap(ErrMissingColumn, "price table: close")
	case symCol < 0:
		return nil, errors.Wrap(ErrMissingColumn, "price table: symbol")
	}

	obs := make([]model.PriceObservation, 0, t.Len())
	skipped := 0
	for r := range t.Rows {
		rawDate := strings.TrimSpace(t.Cell(r, dateCol))
		rawClose := strings.TrimSpace(t.Cell(r, closeCol))
		if isNull(rawDate) || isNull(rawClose) {
			skipped++
			continue
		}
		ts, ok := selector.ParseTimestamp(rawDate)
		if !ok {
			return nil, errors.Errorf("price row %d: unparseable date %q", r+2, rawDate)
		}
		closePrice, err := strconv.ParseFloat(rawClose, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "price row %d: close", r+2)
		}
		obs = append(obs, model.PriceObservation{
			Symbol: strings.TrimSpace(t.Cell(r, symCol)),
			Date:   calendar.Day(ts),
			Close:  closePrice,
		})
	}
	if skipped > 0 {
		log.Warn().Int("rows", skipped).Msg("price rows without date or close skipped")
	}
	return obs, nil
}

func columnByName(columns []string, name string) int {
	for i, c := range columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// TSVPriceSource reads prices from a tab-separated file.
type TSVPriceSource struct {
	Path string
}

func NewTSVPriceSource(path string) *TSVPriceSource {
	return &TSVPriceSource{Path: path}
}

func (s *TSVPriceSource) Name() string { return "tsv" }

func (s *TSVPriceSource) LoadPrices(ctx context.Context, _ PriceRequest) ([]model.PriceObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	t, err := ReadTable(s.Path)
	if err != nil {
		return nil, err
	}
	obs, err := ParsePriceTable(t)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.Path)
	}
	return obs, nil
}
