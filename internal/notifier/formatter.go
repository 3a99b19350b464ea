package notifier

import (
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"

	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/pipeline"
	"HeadlineSentinel/internal/selector"
)

const maxTelegramRows = 10

var banner = strings.Repeat("=", 80)

// FormatPreamble describes the target date and window of a scan.
func FormatPreamble(res *model.ScanResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Target date: %s\n", res.TargetDate.Format("Monday, 01/02/2006")))
	b.WriteString(fmt.Sprintf("Previous trading day: %s\n", res.PreviousTradingDay.Format("Monday, 01/02/2006")))
	b.WriteString(fmt.Sprintf("Time window: %s to %s\n",
		res.Window.Start.Format("01/02/2006 03:04 PM"), res.Window.End.Format("01/02/2006 03:04 PM")))
	return b.String()
}

// WriteTable prints the annotated headlines as an aligned text table.
// Null cells print as NaN.
func WriteTable(w io.Writer, res *model.ScanResult) error {
	t := res.Table
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "HEADLINES WITH ROLLING STATISTICS: %d rows\n", t.Len())
	fmt.Fprintln(w, banner)
	if t.Len() == 0 {
		_, err := fmt.Fprintln(w, "No matching rows found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for c := range t.Columns {
			v := strings.ReplaceAll(t.Cell(r, c), "\t", " ")
			if v == "" {
				v = "NaN"
			}
			cells[c] = v
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// FormatScanSummary formats a scan for Telegram.
func FormatScanSummary(res *model.ScanResult) string {
	var b strings.Builder
	t := res.Table

	b.WriteString(fmt.Sprintf("📰 <b>Pre-market headlines</b> | %s\n\n", res.TargetDate.Format("Mon 01/02/2006")))
	b.WriteString(fmt.Sprintf("Window: %s → %s\n",
		res.Window.Start.Format("01/02 15:04"), res.Window.End.Format("01/02 15:04:05")))
	b.WriteString(fmt.Sprintf("Headlines: %d of %d | symbols with stats: %d\n\n", t.Len(), res.HeadlinesScanned, res.SymbolsWithStats))

	if t.Len() == 0 {
		b.WriteString("No matching rows found.")
		return b.String()
	}

	symCol := selector.HeadlineSymbolColumn(t.Columns)
	prevCol := t.ColumnIndex(pipeline.DerivedColumns[0])
	lowerCol := t.ColumnIndex(pipeline.DerivedColumns[5])
	upperCol := t.ColumnIndex(pipeline.DerivedColumns[4])
	headlineCol := selector.DetectColumn(t.Columns, []string{"headline", "title"}, selector.NoFallback)

	for r := 0; r < t.Len() && r < maxTelegramRows; r++ {
		sym := "?"
		if symCol >= 0 {
			sym = t.Cell(r, symCol)
		}
		b.WriteString(fmt.Sprintf("• <b>%s</b>", html.EscapeString(sym)))
		if prevCol >= 0 && t.Cell(r, prevCol) != "" {
			b.WriteString(fmt.Sprintf(" prev %s", t.Cell(r, prevCol)))
			if t.Cell(r, lowerCol) != "" {
				b.WriteString(fmt.Sprintf(" band %s–%s", shorten(t.Cell(r, lowerCol)), shorten(t.Cell(r, upperCol))))
			}
		}
		if headlineCol >= 0 {
			b.WriteString(" | " + html.EscapeString(t.Cell(r, headlineCol)))
		}
		b.WriteString("\n")
	}
	if t.Len() > maxTelegramRows {
		b.WriteString(fmt.Sprintf("… and %d more\n", t.Len()-maxTelegramRows))
	}
	return b.String()
}

// shorten trims a rendered number to two decimals.
func shorten(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 && len(v) > i+3 {
		return v[:i+3]
	}
	return v
}
