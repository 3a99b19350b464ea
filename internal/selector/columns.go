package selector

import "strings"

var (
	TimestampKeywords = []string{"time", "date"}
	SymbolKeywords    = []string{"symbol", "ticker"}
)

// DetectColumn returns the index of the first column whose lowercased name
// contains any keyword. If none matches it returns fallback when that is a
// valid index, otherwise -1.
func DetectColumn(columns []string, keywords []string, fallback int) int {
	for i, c := range columns {
		name := strings.ToLower(c)
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return i
			}
		}
	}
	if fallback >= 0 && fallback < len(columns) {
		return fallback
	}
	return -1
}

// NoFallback disables the fallback in DetectColumn.
const NoFallback = -1

// TimestampColumn detects the headline timestamp column, defaulting to the first.
func TimestampColumn(columns []string) int {
	return DetectColumn(columns, TimestampKeywords, 0)
}

// HeadlineSymbolColumn detects the headline symbol column. There is no fallback.
func HeadlineSymbolColumn(columns []string) int {
	return DetectColumn(columns, SymbolKeywords, NoFallback)
}

// PriceSymbolColumn detects the price symbol column, defaulting to the second.
func PriceSymbolColumn(columns []string) int {
	return DetectColumn(columns, SymbolKeywords, 1)
}
