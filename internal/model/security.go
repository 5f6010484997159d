package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code of one of the three supported currencies.
// Securities are priced in their native currency; portfolio valuations are
// always expressed in the reference currency (USD).
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyRUB:
		return true
	}
	return false
}

// Sector is a short sector code assigned by the market-data ingestion process.
// An empty Sector means the security has no sector assigned.
type Sector string

// SectorNames maps sector codes to their display names. Display names are
// what the sector graph variant uses as bucket labels.
var SectorNames = map[Sector]string{
	"BMAT": "Basic Materials",
	"BOND": "Bonds",
	"COM":  "Communication Services",
	"CYCL": "Consumer Cyclical",
	"DEF":  "Consumer Defensive",
	"ENER": "Energy",
	"ETF":  "ETF",
	"FIN":  "Financial Services",
	"GOLD": "Gold",
	"HEAL": "Healthcare",
	"IND":  "Industrials",
	"EST":  "Real Estate",
	"TECH": "Technology",
	"UTIL": "Utilities",
}

// DisplayName returns the human-readable name for the sector code.
// Unknown codes fall back to the raw code so bad data stays visible.
func (s Sector) DisplayName() string {
	if name, ok := SectorNames[s]; ok {
		return name
	}
	return string(s)
}

// Security represents a tradable instrument from the database.
// Securities are written by the market-data ingestion process and are
// read-only to the valuation engine. Price carries four fractional digits
// in the security's native currency.
type Security struct {
	ID       string
	Ticker   string
	Name     string
	Price    decimal.Decimal
	Currency Currency
	Sector   Sector // empty when no sector is assigned
	Country  string // empty when no country is assigned
	PricedAt time.Time
}
