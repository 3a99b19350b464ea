package collector

import (
	"context"

	"HeadlineSentinel/internal/model"
)

// MockPriceSource returns fixed observations for development and testing.
type MockPriceSource struct {
	Observations []model.PriceObservation
	Err          error
	Requests     []PriceRequest
}

func (m *MockPriceSource) Name() string { return "mock" }

func (m *MockPriceSource) LoadPrices(_ context.Context, req PriceRequest) ([]model.PriceObservation, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Observations, nil
}
