package collector

import (
	"context"
	"sort"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/calendar"
	"HeadlineSentinel/internal/model"
)

// AlpacaPriceSource loads daily bars for the requested symbols from the
// Alpaca market data API.
type AlpacaPriceSource struct {
	Client       *marketdata.Client
	Feed         string
	LookbackDays int
}

// NewAlpacaPriceSource creates a source. lookbackDays is in calendar days
// and must cover 20 trading days before the target.
func NewAlpacaPriceSource(apiKey, apiSecret, baseURL, feed string, lookbackDays int) *AlpacaPriceSource {
	return &AlpacaPriceSource{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		Feed:         feed,
		LookbackDays: lookbackDays,
	}
}

func (s *AlpacaPriceSource) Name() string { return "alpaca" }

func (s *AlpacaPriceSource) LoadPrices(ctx context.Context, req PriceRequest) ([]model.PriceObservation, error) {
	if len(req.Symbols) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	day := calendar.Day(req.Target)
	bars, err := s.Client.GetMultiBars(req.Symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     day.AddDate(0, 0, -s.LookbackDays),
		End:       day.AddDate(0, 0, 1),
		Feed:      marketdata.Feed(s.Feed),
	})
	if err != nil {
		return nil, errors.Wrap(err, "alpaca daily bars")
	}

	symbols := make([]string, 0, len(bars))
	for sym := range bars {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var obs []model.PriceObservation
	for _, sym := range symbols {
		for _, b := range bars[sym] {
			obs = append(obs, model.PriceObservation{
				Symbol: sym,
				Date:   calendar.Day(b.Timestamp.UTC()),
				Close:  b.Close,
			})
		}
	}
	log.Debug().Int("symbols", len(symbols)).Int("bars", len(obs)).Msg("alpaca bars loaded")
	return obs, nil
}
