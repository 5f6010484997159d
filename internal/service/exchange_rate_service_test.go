package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/testutil"
)

// TestExchangeRateService_GetRates tests the daily refresh cycle of the
// exchange rate cache.
//
// WHY: Every valuation depends on the cache fetching at most once per
// calendar day and never serving unquantized rates. A broken staleness check
// either hammers the provider or silently values portfolios with yesterday's
// rates.
func TestExchangeRateService_GetRates(t *testing.T) {
	t.Run("creates record on first access", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fx := testutil.NewMockFXClient()
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		rates, err := svc.GetRates(context.Background())
		if err != nil {
			t.Fatalf("GetRates() returned unexpected error: %v", err)
		}

		if fx.FetchCount != 1 {
			t.Errorf("Expected 1 fetch, got %d", fx.FetchCount)
		}
		if !rates.EUR.Equal(decimal.RequireFromString("1.08")) {
			t.Errorf("Expected EUR rate 1.08, got %s", rates.EUR)
		}
		if !rates.RUB.Equal(decimal.RequireFromString("90.5")) {
			t.Errorf("Expected RUB rate 90.5, got %s", rates.RUB)
		}

		testutil.AssertRowCount(t, db, "exchange_rate", 1)
	})

	t.Run("second call on the same day performs no fetch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fx := testutil.NewMockFXClient()
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		if _, err := svc.GetRates(context.Background()); err != nil {
			t.Fatalf("First GetRates() returned unexpected error: %v", err)
		}
		if _, err := svc.GetRates(context.Background()); err != nil {
			t.Fatalf("Second GetRates() returned unexpected error: %v", err)
		}

		if fx.FetchCount != 1 {
			t.Errorf("Expected exactly 1 fetch for same-day calls, got %d", fx.FetchCount)
		}
	})

	t.Run("date advance triggers exactly one refresh and overwrites rates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fx := testutil.NewMockFXClient()

		day1 := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")
		if _, err := day1.GetRates(context.Background()); err != nil {
			t.Fatalf("Day-1 GetRates() returned unexpected error: %v", err)
		}

		fx.WithRates(map[string]string{"EUR": "1.12", "RUB": "95.2"})

		day2 := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-11")
		rates, err := day2.GetRates(context.Background())
		if err != nil {
			t.Fatalf("Day-2 GetRates() returned unexpected error: %v", err)
		}

		if fx.FetchCount != 2 {
			t.Errorf("Expected 2 fetches across the date boundary, got %d", fx.FetchCount)
		}
		if !rates.EUR.Equal(decimal.RequireFromString("1.12")) {
			t.Errorf("Expected refreshed EUR rate 1.12, got %s", rates.EUR)
		}

		var lastUpdated string
		if err := db.QueryRow("SELECT last_updated FROM exchange_rate WHERE id = 1").Scan(&lastUpdated); err != nil {
			t.Fatalf("Failed to read exchange_rate row: %v", err)
		}
		if lastUpdated != "2025-03-11" {
			t.Errorf("Expected last_updated 2025-03-11, got %s", lastUpdated)
		}
	})

	t.Run("quantizes at read time and stores the raw rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fx := testutil.NewMockFXClient().WithRates(map[string]string{
			"EUR": "1.0849",
			"RUB": "90.455",
		})
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		rates, err := svc.GetRates(context.Background())
		if err != nil {
			t.Fatalf("GetRates() returned unexpected error: %v", err)
		}

		if !rates.EUR.Equal(decimal.RequireFromString("1.08")) {
			t.Errorf("Expected EUR quantized to 1.08, got %s", rates.EUR)
		}
		if !rates.RUB.Equal(decimal.RequireFromString("90.46")) {
			t.Errorf("Expected RUB rounded half-up to 90.46, got %s", rates.RUB)
		}

		// The stored record keeps the provider's full precision.
		var eurRate string
		if err := db.QueryRow("SELECT eur_rate FROM exchange_rate WHERE id = 1").Scan(&eurRate); err != nil {
			t.Fatalf("Failed to read exchange_rate row: %v", err)
		}
		if eurRate != "1.0849" {
			t.Errorf("Expected stored raw rate 1.0849, got %s", eurRate)
		}
	})

	t.Run("fresh pre-seeded record performs no fetch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SetExchangeRate(t, db, "2025-03-10", "1.1", "88")

		fx := testutil.NewMockFXClient()
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		rates, err := svc.GetRates(context.Background())
		if err != nil {
			t.Fatalf("GetRates() returned unexpected error: %v", err)
		}
		if fx.FetchCount != 0 {
			t.Errorf("Expected no fetch for a fresh record, got %d", fx.FetchCount)
		}
		if !rates.EUR.Equal(decimal.RequireFromString("1.1")) {
			t.Errorf("Expected stored EUR rate 1.1, got %s", rates.EUR)
		}
	})

	t.Run("provider failure propagates without a stale fallback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SetExchangeRate(t, db, "2025-03-09", "1.1", "88")

		fetchErr := fmt.Errorf("%w: connection refused", apperrors.ErrRateFetch)
		fx := testutil.NewMockFXClient().WithError(fetchErr)
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		_, err := svc.GetRates(context.Background())
		if !errors.Is(err, apperrors.ErrRateFetch) {
			t.Fatalf("Expected ErrRateFetch, got %v", err)
		}

		// The stale record must stay untouched: no partial update.
		var lastUpdated string
		if err := db.QueryRow("SELECT last_updated FROM exchange_rate WHERE id = 1").Scan(&lastUpdated); err != nil {
			t.Fatalf("Failed to read exchange_rate row: %v", err)
		}
		if lastUpdated != "2025-03-09" {
			t.Errorf("Expected record still dated 2025-03-09, got %s", lastUpdated)
		}
	})

	t.Run("missing currency in provider payload is a fetch error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fx := testutil.NewMockFXClient().WithRates(map[string]string{"EUR": "1.08"})
		svc := testutil.NewTestExchangeRateService(t, db, fx, "2025-03-10")

		_, err := svc.GetRates(context.Background())
		if !errors.Is(err, apperrors.ErrRateFetch) {
			t.Fatalf("Expected ErrRateFetch for missing RUB rate, got %v", err)
		}

		testutil.AssertRowCount(t, db, "exchange_rate", 0)
	})
}
