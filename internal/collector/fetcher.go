package collector

import (
	"context"
	"time"

	"HeadlineSentinel/internal/model"
)

// PriceRequest narrows what a source needs to load. File and database
// sources return every symbol and ignore Symbols.
type PriceRequest struct {
	Target  time.Time
	Symbols []string
}

// PriceSource loads daily closing prices.
type PriceSource interface {
	LoadPrices(ctx context.Context, req PriceRequest) ([]model.PriceObservation, error)
	Name() string
}
