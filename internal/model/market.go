package model

import "time"

// PriceObservation is one daily close for a symbol.
type PriceObservation struct {
	Symbol string
	Date   time.Time // midnight UTC of the trading date
	Close  float64
}

// PriceSeries holds the observations of a single symbol.
type PriceSeries struct {
	Symbol       string
	Observations []PriceObservation
}

// GroupBySymbol splits observations into per-symbol series, preserving
// the order in which symbols first appear.
func GroupBySymbol(obs []PriceObservation) []PriceSeries {
	index := make(map[string]int)
	var out []PriceSeries
	for _, o := range obs {
		i, ok := index[o.Symbol]
		if !ok {
			i = len(out)
			index[o.Symbol] = i
			out = append(out, PriceSeries{Symbol: o.Symbol})
		}
		out[i].Observations = append(out[i].Observations, o)
	}
	return out
}
