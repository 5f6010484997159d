package testutil

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockFXClient is a mock implementation of exchangerate.Client for testing.
// It returns predefined rates instead of calling the real provider and
// counts fetches so tests can assert on cache behavior.
type MockFXClient struct {
	// MockRates is the conversion-rates map to return
	MockRates map[string]decimal.Decimal
	// MockError is the error to return instead of rates
	MockError error
	// FetchCount tracks how many times LatestUSD was called
	FetchCount int
}

// NewMockFXClient creates a mock FX client with default test rates
// (EUR 1.08, RUB 90.5).
func NewMockFXClient() *MockFXClient {
	return &MockFXClient{
		MockRates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("1.08"),
			"RUB": decimal.RequireFromString("90.5"),
		},
	}
}

// LatestUSD returns the configured rates or error, counting the call either way.
func (m *MockFXClient) LatestUSD(_ context.Context) (map[string]decimal.Decimal, error) {
	m.FetchCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockRates, nil
}

// WithRates configures the mock to return the given rates, keyed by ISO code.
func (m *MockFXClient) WithRates(rates map[string]string) *MockFXClient {
	m.MockRates = make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		m.MockRates[code] = decimal.RequireFromString(rate)
	}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockFXClient) WithError(err error) *MockFXClient {
	m.MockError = err
	return m
}
