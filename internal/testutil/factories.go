package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// createSequence spaces out creation timestamps so insertion order stays
// deterministic even when a test creates rows within the same wall-clock
// instant.
var createSequence int64

// SecurityBuilder provides a fluent interface for creating test securities.
//
// Example usage:
//
//	sec := testutil.NewSecurity().
//	    WithTicker("AAPL").
//	    WithPrice("150.0000").
//	    WithCountry("United States").
//	    Build(t, db)
type SecurityBuilder struct {
	ID       string
	Ticker   string
	Name     string
	Price    string
	Currency model.Currency
	Sector   model.Sector
	Country  string
}

// NewSecurity creates a SecurityBuilder with sensible defaults: a USD
// security with no sector or country assigned.
func NewSecurity() *SecurityBuilder {
	return &SecurityBuilder{
		ID:       MakeID(),
		Ticker:   MakeTicker("TST"),
		Name:     "Test Security",
		Price:    "100.0000",
		Currency: model.CurrencyUSD,
	}
}

// WithTicker sets a custom ticker.
func (b *SecurityBuilder) WithTicker(ticker string) *SecurityBuilder {
	b.Ticker = ticker
	return b
}

// WithPrice sets the price as a decimal string.
func (b *SecurityBuilder) WithPrice(price string) *SecurityBuilder {
	b.Price = price
	return b
}

// WithCurrency sets the security's native currency.
func (b *SecurityBuilder) WithCurrency(currency model.Currency) *SecurityBuilder {
	b.Currency = currency
	return b
}

// WithSector sets the sector code.
func (b *SecurityBuilder) WithSector(sector model.Sector) *SecurityBuilder {
	b.Sector = sector
	return b
}

// WithCountry sets the country.
func (b *SecurityBuilder) WithCountry(country string) *SecurityBuilder {
	b.Country = country
	return b
}

// Build creates the security in the database and returns it.
func (b *SecurityBuilder) Build(t *testing.T, db *sql.DB) model.Security {
	t.Helper()

	query := `
		INSERT INTO security (id, ticker, name, price, currency, sector, country, priced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var sector, country any
	if b.Sector != "" {
		sector = string(b.Sector)
	}
	if b.Country != "" {
		country = b.Country
	}

	pricedAt := time.Now().UTC()
	_, err := db.Exec(query, b.ID, b.Ticker, b.Name, b.Price, string(b.Currency), sector, country, pricedAt)
	if err != nil {
		t.Fatalf("Failed to create test security: %v", err)
	}

	return model.Security{
		ID:       b.ID,
		Ticker:   b.Ticker,
		Name:     b.Name,
		Price:    decimal.RequireFromString(b.Price),
		Currency: b.Currency,
		Sector:   b.Sector,
		Country:  b.Country,
		PricedAt: pricedAt,
	}
}

// CreatePortfolio creates a portfolio with the given name.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()

	createSequence++
	p := model.Portfolio{
		ID:        MakeID(),
		Name:      name,
		CreatedAt: time.Now().UTC().Add(time.Duration(createSequence) * time.Millisecond),
	}

	query := `
		INSERT INTO portfolio (id, name, created_at)
		VALUES (?, ?, ?)
	`

	if _, err := db.Exec(query, p.ID, p.Name, p.CreatedAt); err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return p
}

// CreateItem adds a security to a portfolio with the given quantity.
// Successive calls get strictly increasing created_at values, so holdings
// read back in the order the test created them.
func CreateItem(t *testing.T, db *sql.DB, portfolioID, securityID string, quantity int64) model.PortfolioItem {
	t.Helper()

	createSequence++
	item := model.PortfolioItem{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC().Add(time.Duration(createSequence) * time.Millisecond),
	}

	query := `
		INSERT INTO portfolio_item (id, portfolio_id, security_id, quantity, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, item.ID, item.PortfolioID, item.SecurityID, item.Quantity, item.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test portfolio item: %v", err)
	}

	return item
}

// SetExchangeRate writes the singleton exchange rate row directly,
// bypassing the cache. Useful for pre-seeding staleness scenarios.
func SetExchangeRate(t *testing.T, db *sql.DB, lastUpdated, eurRate, rubRate string) {
	t.Helper()

	query := `
		INSERT INTO exchange_rate (id, last_updated, eur_rate, rub_rate)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_updated = excluded.last_updated,
			eur_rate = excluded.eur_rate,
			rub_rate = excluded.rub_rate
	`

	if _, err := db.Exec(query, lastUpdated, eurRate, rubRate); err != nil {
		t.Fatalf("Failed to set exchange rate: %v", err)
	}
}

// MakeID generates a UUID string for use in tests.
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates a unique ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("AAPL")
//	// Returns: "AAPL1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
