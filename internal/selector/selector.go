// Package selector picks the headlines that fall inside a trading window.
package selector

import (
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/model"
)

// Selection is the subset of a table inside the window.
type Selection struct {
	Table           *model.Table
	TimestampColumn int
	Skipped         int // rows with a missing or unparseable timestamp
}

// SelectInWindow keeps the rows whose timestamp lies in w, both ends inclusive.
// Rows with a missing or unparseable timestamp are dropped, never an error.
func SelectInWindow(t *model.Table, w model.TradingWindow) Selection {
	col := TimestampColumn(t.Columns)
	out := &model.Table{Columns: append([]string(nil), t.Columns...)}
	sel := Selection{Table: out, TimestampColumn: col}
	if col < 0 {
		return sel
	}

	for r, row := range t.Rows {
		ts, ok := ParseTimestamp(t.Cell(r, col))
		if !ok {
			sel.Skipped++
			continue
		}
		if w.Contains(ts) {
			out.Rows = append(out.Rows, row)
		}
	}

	if sel.Skipped > 0 {
		log.Debug().Int("skipped", sel.Skipped).Str("column", t.Columns[col]).Msg("headlines without a usable timestamp")
	}
	return sel
}
