package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ivolkov/portfolio-graphs/internal/api/handlers"
	"github.com/ivolkov/portfolio-graphs/internal/testutil"
)

// TestPortfolioHandler tests the portfolio and item endpoints.
func TestPortfolioHandler(t *testing.T) {
	t.Run("lists portfolios", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		testutil.CreatePortfolio(t, db, "First")
		testutil.CreatePortfolio(t, db, "Second")

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/", nil)
		rec := httptest.NewRecorder()
		handler.Portfolios(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var resp []handlers.PortfolioResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("Expected 2 portfolios, got %d", len(resp))
		}
		if resp[0].Name != "First" || resp[1].Name != "Second" {
			t.Errorf("Expected [First Second], got [%s %s]", resp[0].Name, resp[1].Name)
		}
	})

	t.Run("creates a portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		body := bytes.NewBufferString(`{"name": "Retirement"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/", body)
		rec := httptest.NewRecorder()
		handler.CreatePortfolio(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		testutil.AssertRowCount(t, db, "portfolio", 1)
	})

	t.Run("rejects portfolios without a name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		handler.CreatePortfolio(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("lists holdings with security details", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().WithTicker("AAPL").WithPrice("150.2500").Build(t, db)
		testutil.CreateItem(t, db, portfolio.ID, sec.ID, 3)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			fmt.Sprintf("/api/portfolio/%s/items", portfolio.ID),
			map[string]string{"portfolioId": portfolio.ID})
		rec := httptest.NewRecorder()
		handler.Holdings(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp []handlers.HoldingResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(resp))
		}
		if resp[0].Ticker != "AAPL" || resp[0].Quantity != 3 || resp[0].Price != 150.25 {
			t.Errorf("Unexpected holding %+v", resp[0])
		}
	})

	t.Run("holdings for a missing portfolio is 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		missingID := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			fmt.Sprintf("/api/portfolio/%s/items", missingID),
			map[string]string{"portfolioId": missingID})
		rec := httptest.NewRecorder()
		handler.Holdings(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rec.Code)
		}
	})

	t.Run("adds an item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)

		body := bytes.NewBufferString(fmt.Sprintf(`{"security_id": %q, "quantity": 4}`, sec.ID))
		req := testutil.NewRequestWithBody(http.MethodPost,
			fmt.Sprintf("/api/portfolio/%s/items", portfolio.ID),
			body,
			map[string]string{"portfolioId": portfolio.ID})
		rec := httptest.NewRecorder()
		handler.AddItem(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		testutil.AssertRowCount(t, db, "portfolio_item", 1)
	})

	t.Run("rejects zero-quantity items with 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)

		body := bytes.NewBufferString(fmt.Sprintf(`{"security_id": %q, "quantity": 0}`, sec.ID))
		req := testutil.NewRequestWithBody(http.MethodPost,
			fmt.Sprintf("/api/portfolio/%s/items", portfolio.ID),
			body,
			map[string]string{"portfolioId": portfolio.ID})
		rec := httptest.NewRecorder()
		handler.AddItem(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", rec.Code)
		}
		testutil.AssertRowCount(t, db, "portfolio_item", 0)
	})

	t.Run("adjusts and removes items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

		portfolio := testutil.CreatePortfolio(t, db, "Main")
		sec := testutil.NewSecurity().Build(t, db)
		item := testutil.CreateItem(t, db, portfolio.ID, sec.ID, 10)

		req := testutil.NewRequestWithBody(http.MethodPut,
			fmt.Sprintf("/api/portfolio/items/%s/quantity", item.ID),
			bytes.NewBufferString(`{"delta": -4}`),
			map[string]string{"itemId": item.ID})
		rec := httptest.NewRecorder()
		handler.AdjustItem(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var adjusted map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&adjusted); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if adjusted["quantity"].(float64) != 6 {
			t.Errorf("Expected quantity 6, got %v", adjusted["quantity"])
		}

		req = testutil.NewRequestWithURLParams(http.MethodDelete,
			fmt.Sprintf("/api/portfolio/items/%s", item.ID),
			map[string]string{"itemId": item.ID})
		rec = httptest.NewRecorder()
		handler.RemoveItem(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d", rec.Code)
		}
		testutil.AssertRowCount(t, db, "portfolio_item", 0)
	})
}
