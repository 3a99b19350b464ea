package model

import "time"

// TradingWindow is the headline window [Start, End], inclusive at both ends.
type TradingWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts lies inside the window.
func (w TradingWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}
