package pipeline

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/selector"
)

// DerivedColumns are appended to every joined headline, in this order.
var DerivedColumns = []string{
	"prevClose",
	"20d_stdevOfClose",
	"20d_Closeavg",
	"20d_stdev_pctOfClose",
	"20d_Closeavg_plus_stdevpct",
	"20d_Closeavg_minus_stdevpct",
	"stdev_price_range",
}

// AttachStats appends the derived columns to each row by symbol and
// reorders columns: timestamp, symbol, derived, then the rest in original
// order. Symbols without stats get empty cells. Without a symbol column the
// table is returned unchanged.
func AttachStats(t *model.Table, stats map[string]model.RollingStats) *model.Table {
	symCol := selector.HeadlineSymbolColumn(t.Columns)
	if symCol < 0 {
		return t
	}
	tsCol := selector.TimestampColumn(t.Columns)

	order := []int{tsCol}
	if symCol != tsCol {
		order = append(order, symCol)
	}
	columns := make([]string, 0, len(t.Columns)+len(DerivedColumns))
	for _, i := range order {
		columns = append(columns, t.Columns[i])
	}
	columns = append(columns, DerivedColumns...)
	for i, c := range t.Columns {
		if i != tsCol && i != symCol {
			columns = append(columns, c)
		}
	}

	out := &model.Table{Columns: columns, Rows: make([][]string, 0, t.Len())}
	for r := range t.Rows {
		row := make([]string, 0, len(columns))
		for _, i := range order {
			row = append(row, t.Cell(r, i))
		}
		row = append(row, derivedValues(stats, strings.TrimSpace(t.Cell(r, symCol)))...)
		for i := range t.Columns {
			if i != tsCol && i != symCol {
				row = append(row, t.Cell(r, i))
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func derivedValues(stats map[string]model.RollingStats, symbol string) []string {
	s, ok := stats[symbol]
	if !ok {
		return make([]string, len(DerivedColumns))
	}
	return []string{
		FormatValue(s.PrevClose),
		FormatValue(s.StdevOfClose),
		FormatValue(s.AvgClose),
		FormatValue(s.StdevPctOfClose),
		FormatValue(s.UpperBound),
		FormatValue(s.LowerBound),
		FormatValue(s.Range),
	}
}

// FormatValue renders the shortest decimal that round-trips to v. NaN and
// infinities render as an empty (null) cell.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).String()
}
