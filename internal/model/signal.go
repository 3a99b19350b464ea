package model

import "time"

// TriggerType indicates what started a scan.
type TriggerType string

const (
	TriggerCLI      TriggerType = "CLI"
	TriggerSchedule TriggerType = "SCHEDULE"
	TriggerTelegram TriggerType = "TELEGRAM"
)

// ScanResult is the output of one pipeline run.
type ScanResult struct {
	RawDate            string // date as entered, used for the output file name
	TargetDate         time.Time
	PreviousTradingDay time.Time
	Window             TradingWindow
	Table              *Table
	SymbolsWithStats   int
	HeadlinesScanned   int
	SkippedTimestamps  int
	TriggerType        TriggerType
}
