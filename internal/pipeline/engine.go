// Package pipeline runs one headline scan: window, selection, rolling
// statistics and the join.
package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/calculator"
	"HeadlineSentinel/internal/calendar"
	"HeadlineSentinel/internal/collector"
	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/selector"
)

// Engine runs scans against one collector.
type Engine struct {
	Collector *collector.Collector
}

// NewEngine creates a new Engine.
func NewEngine(c *collector.Collector) *Engine {
	return &Engine{Collector: c}
}

// Run scans the headlines for rawDate (M/D/YYYY).
func (e *Engine) Run(ctx context.Context, rawDate string, trigger model.TriggerType) (*model.ScanResult, error) {
	res, err := Resolve(rawDate, trigger)
	if err != nil {
		return nil, err
	}
	if err := e.Scan(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Resolve parses rawDate and fills in the target date, previous trading
// day and window of a new result. No files are read.
func Resolve(rawDate string, trigger model.TriggerType) (*model.ScanResult, error) {
	target, err := calendar.ParseTargetDate(rawDate)
	if err != nil {
		return nil, err
	}
	return &model.ScanResult{
		RawDate:            strings.TrimSpace(rawDate),
		TargetDate:         target,
		PreviousTradingDay: calendar.PreviousTradingDay(target),
		Window:             calendar.ComputeWindow(target),
		TriggerType:        trigger,
	}, nil
}

// Scan loads headlines and prices for a resolved result and attaches the
// rolling statistics to the selected rows.
func (e *Engine) Scan(ctx context.Context, res *model.ScanResult) error {
	headlines, err := e.Collector.LoadHeadlines(ctx)
	if err != nil {
		return err
	}
	sel := selector.SelectInWindow(headlines, res.Window)
	log.Info().
		Str("target", calendar.FormatDate(res.TargetDate)).
		Int("selected", sel.Table.Len()).
		Int("skipped", sel.Skipped).
		Msg("headlines selected")

	obs, err := e.Collector.LoadPrices(ctx, collector.PriceRequest{
		Target:  res.TargetDate,
		Symbols: symbolsOf(sel.Table),
	})
	if err != nil {
		return err
	}
	stats := calculator.ComputeAll(obs, res.TargetDate)
	log.Info().Int("symbols", len(stats)).Msg("rolling statistics computed")

	res.Table = AttachStats(sel.Table, stats)
	res.SymbolsWithStats = len(stats)
	res.HeadlinesScanned = headlines.Len()
	res.SkippedTimestamps = sel.Skipped
	return nil
}

// symbolsOf returns the distinct non-empty symbols of a headline table, sorted.
func symbolsOf(t *model.Table) []string {
	col := selector.HeadlineSymbolColumn(t.Columns)
	if col < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for r := range t.Rows {
		s := strings.TrimSpace(t.Cell(r, col))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
