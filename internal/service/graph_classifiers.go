package service

import (
	"strings"
	"unicode"

	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// Fallback labels for holdings with an absent dimension value. Absent values
// are not errors: they route to these well-defined buckets.
const (
	undefinedSectorLabel  = "Undefined sector"
	undefinedCountryLabel = "Undefined country"
)

// Market bucket labels produced by the country classification table.
const (
	marketUnitedStates    = "United States"
	marketRussia          = "Russia"
	marketEmerging        = "Emerging Markets"
	marketDeveloped       = "Developed Markets"
	marketAllCountryWorld = "All Country World"
)

// classifier describes one graph variant: how a holding maps to a bucket
// label and how the aggregator treats the resulting buckets.
//
// appendOnly disables merging: every holding gets its own bucket even when a
// label repeats. Only the security variant sets it, so adding an already-held
// ticker as a second item produces a second slice rather than growing the
// first. Intentional or not in the original product, consumers now depend on
// it, so it is kept.
//
// seed pre-creates zero-cost buckets in a fixed order; dropZero removes
// buckets whose final total is zero so unused seeds don't render as empty
// slices.
type classifier struct {
	label      func(sec model.Security) string
	appendOnly bool
	seed       []string
	dropZero   bool
}

// classifiers is the variant dispatch table. One generic aggregation loop
// consults it instead of five near-identical loops.
var classifiers = map[model.GraphVariant]classifier{
	model.GraphVariantSecurity: {
		label:      func(sec model.Security) string { return sec.Ticker },
		appendOnly: true,
	},
	model.GraphVariantSector: {
		label: sectorLabel,
	},
	model.GraphVariantCountry: {
		label: countryLabel,
	},
	model.GraphVariantMarket: {
		label: marketLabel,
	},
	model.GraphVariantCurrency: {
		label: func(sec model.Security) string { return string(sec.Currency) },
		seed: []string{
			string(model.CurrencyUSD),
			string(model.CurrencyEUR),
			string(model.CurrencyRUB),
		},
		dropZero: true,
	},
}

func sectorLabel(sec model.Security) string {
	if sec.Sector == "" {
		return undefinedSectorLabel
	}
	return sec.Sector.DisplayName()
}

func countryLabel(sec model.Security) string {
	if sec.Country == "" {
		return undefinedCountryLabel
	}
	return capitalize(sec.Country)
}

// emergingCountries and developedCountries form the fixed country-to-market
// classification table. Countries appear exactly as the ingestion process
// stores them, including the lowercase "Emerging markets" spelling variant.
var emergingCountries = map[string]struct{}{
	"Emerging Markets": {},
	"Emerging markets": {},
	"Kazakhstan":       {},
	"China":            {},
	"Taiwan":           {},
	"Brazil":           {},
	"India":            {},
	"Mexico":           {},
	"Turkey":           {},
	"South Africa":     {},
	"Uruguay":          {},
}

var developedCountries = map[string]struct{}{
	"Developed Markets": {},
	"Germany":           {},
	"Japan":             {},
	"France":            {},
	"Canada":            {},
	"Italy":             {},
	"Netherlands":       {},
	"Norway":            {},
	"Portugal":          {},
	"South Korea":       {},
	"Spain":             {},
	"Belgium":           {},
	"Switzerland":       {},
	"United Kingdom":    {},
	"Australia":         {},
	"Europe":            {},
	"Ireland":           {},
	"Sweden":            {},
	"USA":               {},
	"Bermuda":           {},
}

// marketLabel maps a holding's country to its market bucket. United States
// and Russia keep their own buckets; unknown and absent countries land in
// All Country World.
func marketLabel(sec model.Security) string {
	switch {
	case sec.Country == marketUnitedStates:
		return marketUnitedStates
	case sec.Country == marketRussia:
		return marketRussia
	default:
		if _, ok := emergingCountries[sec.Country]; ok {
			return marketEmerging
		}
		if _, ok := developedCountries[sec.Country]; ok {
			return marketDeveloped
		}
		return marketAllCountryWorld
	}
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how country labels have always been displayed ("united STATES" becomes
// "United states").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
}
