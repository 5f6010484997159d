package model

import "github.com/shopspring/decimal"

// ExchangeRate is the singleton exchange-rate record (primary key fixed at 1).
// Rates are stored exactly as the FX provider returned them; quantization to
// two decimal places happens when the rates are read, not when they are stored.
//
// Each rate is the price of 1 USD expressed in the foreign currency, so a
// foreign price divided by its rate yields the USD cost.
type ExchangeRate struct {
	LastUpdated string // UTC calendar date, YYYY-MM-DD
	EURRate     decimal.Decimal
	RUBRate     decimal.Decimal
}

// Rates holds the conversion rates handed to consumers, already quantized to
// two decimal places with round-half-up.
type Rates struct {
	EUR decimal.Decimal
	RUB decimal.Decimal
}
