package service

import (
	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// PortfolioService handles portfolio and portfolio-item business logic:
// listing portfolios, reading a portfolio's holdings in insertion order, and
// the add/adjust/remove operations on items.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	itemRepo      *repository.PortfolioItemRepository
	securityRepo  *repository.SecurityRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	itemRepo *repository.PortfolioItemRepository,
	securityRepo *repository.SecurityRepository,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		itemRepo:      itemRepo,
		securityRepo:  securityRepo,
	}
}

// GetAllPortfolios retrieves all portfolios.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios()
}

// GetPortfolio retrieves one portfolio by ID.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	if portfolioID == "" {
		return model.Portfolio{}, apperrors.ErrEmptyID
	}
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// CreatePortfolio creates a new named portfolio.
func (s *PortfolioService) CreatePortfolio(name string) (model.Portfolio, error) {
	if name == "" {
		return model.Portfolio{}, apperrors.ErrMissingRequiredField
	}
	return s.portfolioRepo.CreatePortfolio(name)
}

// GetHoldings retrieves a portfolio's items joined with their securities, in
// insertion order. The order is part of the graph contract: it fixes bucket
// display order.
func (s *PortfolioService) GetHoldings(portfolioID string) ([]model.PortfolioHolding, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.itemRepo.GetHoldings(portfolioID)
}

// AddItem adds a security to a portfolio with the given quantity.
// Quantity must be positive.
func (s *PortfolioService) AddItem(portfolioID, securityID string, quantity int64) (model.PortfolioItem, error) {
	if quantity <= 0 {
		return model.PortfolioItem{}, apperrors.ErrInvalidQuantity
	}
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return model.PortfolioItem{}, err
	}
	if _, err := s.securityRepo.GetSecurity(securityID); err != nil {
		return model.PortfolioItem{}, err
	}

	return s.itemRepo.CreateItem(portfolioID, securityID, quantity)
}

// AdjustQuantity changes an item's quantity by the given delta. The resulting
// quantity must stay positive; an adjustment that would zero it out or turn
// it negative is rejected and leaves the item untouched.
func (s *PortfolioService) AdjustQuantity(itemID string, delta int64) (model.PortfolioItem, error) {
	item, err := s.itemRepo.GetItem(itemID)
	if err != nil {
		return model.PortfolioItem{}, err
	}

	updated := item.Quantity + delta
	if updated <= 0 {
		return model.PortfolioItem{}, apperrors.ErrInvalidQuantity
	}

	if err := s.itemRepo.UpdateQuantity(itemID, updated); err != nil {
		return model.PortfolioItem{}, err
	}

	item.Quantity = updated
	return item, nil
}

// RemoveItem deletes a portfolio item.
func (s *PortfolioService) RemoveItem(itemID string) error {
	if itemID == "" {
		return apperrors.ErrEmptyID
	}
	return s.itemRepo.DeleteItem(itemID)
}
