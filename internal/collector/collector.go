package collector

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/model"
)

// Collector loads the headline files and the price source for a scan.
type Collector struct {
	HeadlineFiles []string
	Prices        PriceSource
}

// NewCollector creates a new Collector.
func NewCollector(headlineFiles []string, prices PriceSource) *Collector {
	return &Collector{HeadlineFiles: headlineFiles, Prices: prices}
}

// LoadHeadlines reads every headline file and combines them by column name.
func (c *Collector) LoadHeadlines(ctx context.Context) (*model.Table, error) {
	tables := make([]*model.Table, 0, len(c.HeadlineFiles))
	for _, path := range c.HeadlineFiles {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		t, err := ReadTable(path)
		if err != nil {
			return nil, errors.Wrap(err, "load headlines")
		}
		log.Debug().Str("file", path).Int("rows", t.Len()).Msg("headlines loaded")
		tables = append(tables, t)
	}
	combined := model.Concat(tables...)
	log.Info().Int("files", len(tables)).Int("rows", combined.Len()).Msg("headlines combined")
	return combined, nil
}

// LoadPrices fetches observations from the configured price source.
func (c *Collector) LoadPrices(ctx context.Context, req PriceRequest) ([]model.PriceObservation, error) {
	obs, err := c.Prices.LoadPrices(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "load prices from %s", c.Prices.Name())
	}
	log.Info().Str("source", c.Prices.Name()).Int("observations", len(obs)).Msg("prices loaded")
	return obs, nil
}
