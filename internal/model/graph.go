package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GraphVariant selects which dimension a portfolio's value is distributed
// along. Variant names are part of the rendered-artifact naming contract
// ("{variant}_pie.<ext>"), so they must not change.
type GraphVariant string

const (
	GraphVariantSecurity GraphVariant = "security"
	GraphVariantSector   GraphVariant = "sector"
	GraphVariantCountry  GraphVariant = "country"
	GraphVariantMarket   GraphVariant = "market"
	GraphVariantCurrency GraphVariant = "currency"
)

// GraphVariants lists all five variants in their canonical order.
var GraphVariants = []GraphVariant{
	GraphVariantSecurity,
	GraphVariantSector,
	GraphVariantCountry,
	GraphVariantMarket,
	GraphVariantCurrency,
}

// Valid reports whether v is one of the five known variants.
func (v GraphVariant) Valid() bool {
	switch v {
	case GraphVariantSecurity, GraphVariantSector, GraphVariantCountry,
		GraphVariantMarket, GraphVariantCurrency:
		return true
	}
	return false
}

// GraphSlice is one bucket of a graph dataset: a label and the accumulated
// cost of all holdings classified under that label, in USD.
type GraphSlice struct {
	Label string
	Cost  decimal.Decimal
}

// GraphDataSet is the ordered output of one aggregation pass, consumed by the
// external renderer. Slice order is display order: first-seen label order.
type GraphDataSet struct {
	PortfolioID string
	Variant     GraphVariant
	Slices      []GraphSlice
}

// Total returns the sum of all slice costs.
func (d GraphDataSet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Slices {
		total = total.Add(s.Cost)
	}
	return total
}

// MaterializedGraphSlice is a pre-calculated graph slice persisted by the
// daily snapshot job for fast retrieval.
type MaterializedGraphSlice struct {
	ID           string
	PortfolioID  string
	Variant      GraphVariant
	Position     int
	Label        string
	Cost         decimal.Decimal
	CalculatedAt time.Time
}
