package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PortfolioResponse represents one portfolio in list and detail responses
type PortfolioResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Portfolios lists all portfolios
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve portfolios", err)
		return
	}

	response := make([]PortfolioResponse, len(portfolios))
	for i, p := range portfolios {
		response[i] = PortfolioResponse{ID: p.ID, Name: p.Name}
	}

	respondJSON(w, http.StatusOK, response)
}

// CreatePortfolioRequest represents the portfolio creation payload
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// CreatePortfolio creates a new portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(req.Name)
	if errors.Is(err, apperrors.ErrMissingRequiredField) {
		respondError(w, http.StatusBadRequest, "Portfolio name is required", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create portfolio", err)
		return
	}

	respondJSON(w, http.StatusCreated, PortfolioResponse{ID: portfolio.ID, Name: portfolio.Name})
}

// HoldingResponse represents one portfolio item joined with its security
type HoldingResponse struct {
	ItemID   string  `json:"item_id"`
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Sector   string  `json:"sector,omitempty"`
	Country  string  `json:"country,omitempty"`
	Quantity int64   `json:"quantity"`
}

// Holdings lists a portfolio's items in insertion order
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")

	holdings, err := h.portfolioService.GetHoldings(portfolioID)
	if errors.Is(err, apperrors.ErrPortfolioNotFound) {
		respondError(w, http.StatusNotFound, "Portfolio not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve holdings", err)
		return
	}

	response := make([]HoldingResponse, len(holdings))
	for i, holding := range holdings {
		response[i] = HoldingResponse{
			ItemID:   holding.Item.ID,
			Ticker:   holding.Security.Ticker,
			Name:     holding.Security.Name,
			Price:    holding.Security.Price.InexactFloat64(),
			Currency: string(holding.Security.Currency),
			Sector:   string(holding.Security.Sector),
			Country:  holding.Security.Country,
			Quantity: holding.Item.Quantity,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// AddItemRequest represents the item creation payload
type AddItemRequest struct {
	SecurityID string `json:"security_id"`
	Quantity   int64  `json:"quantity"`
}

// AddItem adds a security to a portfolio
func (h *PortfolioHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.portfolioService.AddItem(portfolioID, req.SecurityID, req.Quantity)
	switch {
	case errors.Is(err, apperrors.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "Quantity must be positive", err)
		return
	case errors.Is(err, apperrors.ErrPortfolioNotFound), errors.Is(err, apperrors.ErrSecurityNotFound):
		respondError(w, http.StatusNotFound, "Portfolio or security not found", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to add portfolio item", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":       item.ID,
		"quantity": item.Quantity,
	})
}

// AdjustItemRequest represents the quantity adjustment payload
type AdjustItemRequest struct {
	Delta int64 `json:"delta"`
}

// AdjustItem changes an item's quantity by a delta
func (h *PortfolioHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req AdjustItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.portfolioService.AdjustQuantity(itemID, req.Delta)
	switch {
	case errors.Is(err, apperrors.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "Resulting quantity must stay positive", err)
		return
	case errors.Is(err, apperrors.ErrPortfolioItemNotFound):
		respondError(w, http.StatusNotFound, "Portfolio item not found", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to adjust portfolio item", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":       item.ID,
		"quantity": item.Quantity,
	})
}

// RemoveItem deletes a portfolio item
func (h *PortfolioHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	err := h.portfolioService.RemoveItem(itemID)
	if errors.Is(err, apperrors.ErrPortfolioItemNotFound) {
		respondError(w, http.StatusNotFound, "Portfolio item not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to remove portfolio item", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
