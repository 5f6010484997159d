package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrSecurityNotFound indicates that a security with the given ID does not exist.
	ErrSecurityNotFound = errors.New("security not found")

	// ErrPortfolioItemNotFound indicates that a portfolio item with the given ID does not exist.
	ErrPortfolioItemNotFound = errors.New("portfolio item not found")

	// ErrExchangeRateNotFound indicates that the exchange rate record has not been created yet.
	ErrExchangeRateNotFound = errors.New("exchange rate record not found")

	// ErrSettingNotFound indicates that a system setting with the given key does not exist.
	ErrSettingNotFound = errors.New("system setting not found")

	// ErrGraphDataNotFound indicates that no materialized graph data exists for the
	// requested portfolio and variant combination.
	ErrGraphDataNotFound = errors.New("graph data not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidGraphVariant indicates that an unrecognized graph variant name was
	// supplied. This is a programmer error: callers must pass one of the five
	// known variants and must not rely on a default.
	ErrInvalidGraphVariant = errors.New("invalid graph variant")

	// ErrUnsupportedCurrency indicates that a security carries a currency outside
	// the supported USD/EUR/RUB set. The security model constrains currencies, so
	// hitting this error means corrupt data or a programming mistake.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidQuantity indicates that a portfolio item quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	// ErrRateFetch indicates that the call to the currency-conversion provider
	// failed: network error, non-success HTTP status, or a malformed payload.
	// The failure is not retried and never falls back to a stale cached value;
	// it surfaces to the caller of the valuation pipeline, whose request aborts.
	ErrRateFetch = errors.New("exchange rate fetch failed")

	// ErrMissingAPIKey indicates that no FX provider API key has been configured.
	ErrMissingAPIKey = errors.New("exchange rate API key not configured")
)
