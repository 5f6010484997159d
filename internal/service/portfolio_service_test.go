package service_test

import (
	"errors"
	"testing"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/testutil"
)

// TestPortfolioService_Items tests portfolio item lifecycle and validation.
//
// WHY: Quantity invariants (always positive, adjustments that would reach
// zero are rejected) guard the aggregation math downstream, and holding
// order drives bucket order in every dataset.
func TestPortfolioService_Items(t *testing.T) {
	t.Run("returns holdings in insertion order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		tickers := []string{"GAZP", "AAPL", "SAP"}
		for _, ticker := range tickers {
			sec := testutil.NewSecurity().WithTicker(ticker).Build(t, db)
			testutil.CreateItem(t, db, portfolio.ID, sec.ID, 1)
		}

		holdings, err := svc.GetHoldings(portfolio.ID)
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != len(tickers) {
			t.Fatalf("Expected %d holdings, got %d", len(tickers), len(holdings))
		}
		for i, h := range holdings {
			if h.Security.Ticker != tickers[i] {
				t.Errorf("Position %d: expected %s, got %s", i, tickers[i], h.Security.Ticker)
			}
		}
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)

		for _, quantity := range []int64{0, -5} {
			_, err := svc.AddItem(portfolio.ID, sec.ID, quantity)
			if !errors.Is(err, apperrors.ErrInvalidQuantity) {
				t.Errorf("AddItem with quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
			}
		}
		testutil.AssertRowCount(t, db, "portfolio_item", 0)
	})

	t.Run("rejects items for missing portfolios and securities", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)

		if _, err := svc.AddItem(testutil.MakeID(), sec.ID, 1); !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
		if _, err := svc.AddItem(portfolio.ID, testutil.MakeID(), 1); !errors.Is(err, apperrors.ErrSecurityNotFound) {
			t.Errorf("Expected ErrSecurityNotFound, got %v", err)
		}
	})

	t.Run("adjusts quantity by a signed delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)
		item := testutil.CreateItem(t, db, portfolio.ID, sec.ID, 10)

		updated, err := svc.AdjustQuantity(item.ID, -4)
		if err != nil {
			t.Fatalf("AdjustQuantity() returned unexpected error: %v", err)
		}
		if updated.Quantity != 6 {
			t.Errorf("Expected quantity 6, got %d", updated.Quantity)
		}
	})

	t.Run("refuses adjustments that would zero out a position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)
		item := testutil.CreateItem(t, db, portfolio.ID, sec.ID, 3)

		if _, err := svc.AdjustQuantity(item.ID, -3); !errors.Is(err, apperrors.ErrInvalidQuantity) {
			t.Fatalf("Expected ErrInvalidQuantity, got %v", err)
		}

		// Failed adjustment leaves the stored quantity untouched.
		var quantity int64
		if err := db.QueryRow("SELECT quantity FROM portfolio_item WHERE id = ?", item.ID).Scan(&quantity); err != nil {
			t.Fatalf("Failed to read portfolio_item: %v", err)
		}
		if quantity != 3 {
			t.Errorf("Expected stored quantity 3, got %d", quantity)
		}
	})

	t.Run("removes items explicitly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)
		item := testutil.CreateItem(t, db, portfolio.ID, sec.ID, 3)

		if err := svc.RemoveItem(item.ID); err != nil {
			t.Fatalf("RemoveItem() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "portfolio_item", 0)

		if err := svc.RemoveItem(item.ID); !errors.Is(err, apperrors.ErrPortfolioItemNotFound) {
			t.Errorf("Expected ErrPortfolioItemNotFound for a removed item, got %v", err)
		}
	})
}

func TestPortfolioService_CreatePortfolio(t *testing.T) {
	t.Run("creates a portfolio with a generated ID", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		portfolio, err := svc.CreatePortfolio("Retirement")
		if err != nil {
			t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
		}
		if portfolio.ID == "" {
			t.Error("Expected a generated portfolio ID")
		}
		if portfolio.Name != "Retirement" {
			t.Errorf("Expected name Retirement, got %s", portfolio.Name)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		if _, err := svc.CreatePortfolio(""); !errors.Is(err, apperrors.ErrMissingRequiredField) {
			t.Fatalf("Expected ErrMissingRequiredField, got %v", err)
		}
	})
}
