package exchangerate

import "github.com/shopspring/decimal"

// Response represents the raw JSON response from the exchangerate-api.com
// "latest" endpoint. Only the result marker, the error type and the
// conversion-rates map are consumed; everything else in the payload is
// ignored.
//
// Rates are keyed by ISO currency code and expressed as the price of 1 USD
// in that currency (the request is made against a USD base).
type Response struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}
