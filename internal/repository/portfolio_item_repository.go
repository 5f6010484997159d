package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// PortfolioItemRepository provides data access methods for the portfolio_item
// table and the item/security join the valuation engine consumes.
type PortfolioItemRepository struct {
	db *sql.DB
}

// NewPortfolioItemRepository creates a new PortfolioItemRepository with the provided database connection.
func NewPortfolioItemRepository(db *sql.DB) *PortfolioItemRepository {
	return &PortfolioItemRepository{db: db}
}

// GetHoldings retrieves all items of a portfolio joined with their securities.
//
// Rows are ordered by (created_at, id). That order is load-bearing: it
// determines first-seen bucket order in every graph dataset, so it must stay
// deterministic across calls.
func (r *PortfolioItemRepository) GetHoldings(portfolioID string) ([]model.PortfolioHolding, error) {
	query := `
        SELECT pi.id, pi.portfolio_id, pi.security_id, pi.quantity, pi.created_at,
               s.id, s.ticker, s.name, s.price, s.currency, s.sector, s.country, s.priced_at
        FROM portfolio_item pi
        INNER JOIN security s ON s.id = pi.security_id
        WHERE pi.portfolio_id = ?
        ORDER BY pi.created_at, pi.id
    `

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_item table: %w", err)
	}
	defer rows.Close()

	holdings := []model.PortfolioHolding{}

	for rows.Next() {
		var h model.PortfolioHolding
		var price string
		var sector, country sql.NullString
		var pricedAt sql.NullTime

		err := rows.Scan(
			&h.Item.ID,
			&h.Item.PortfolioID,
			&h.Item.SecurityID,
			&h.Item.Quantity,
			&h.Item.CreatedAt,
			&h.Security.ID,
			&h.Security.Ticker,
			&h.Security.Name,
			&price,
			&h.Security.Currency,
			&sector,
			&country,
			&pricedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_item row: %w", err)
		}

		h.Security.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse security price %q: %w", price, err)
		}

		if sector.Valid {
			h.Security.Sector = model.Sector(sector.String)
		}
		if country.Valid {
			h.Security.Country = country.String
		}
		if pricedAt.Valid {
			h.Security.PricedAt = pricedAt.Time
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_item table: %w", err)
	}

	return holdings, nil
}

// GetItem retrieves a single portfolio item by ID.
func (r *PortfolioItemRepository) GetItem(itemID string) (model.PortfolioItem, error) {
	query := `
        SELECT id, portfolio_id, security_id, quantity, created_at
        FROM portfolio_item
        WHERE id = ?
    `

	var item model.PortfolioItem
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.PortfolioID,
		&item.SecurityID,
		&item.Quantity,
		&item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PortfolioItem{}, apperrors.ErrPortfolioItemNotFound
	}
	if err != nil {
		return model.PortfolioItem{}, fmt.Errorf("failed to query portfolio item: %w", err)
	}

	return item, nil
}

// CreateItem inserts a new portfolio item and returns it with a generated ID.
func (r *PortfolioItemRepository) CreateItem(portfolioID, securityID string, quantity int64) (model.PortfolioItem, error) {
	item := model.PortfolioItem{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
        INSERT INTO portfolio_item (id, portfolio_id, security_id, quantity, created_at)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.db.Exec(query, item.ID, item.PortfolioID, item.SecurityID, item.Quantity, item.CreatedAt)
	if err != nil {
		return model.PortfolioItem{}, fmt.Errorf("failed to insert portfolio item: %w", err)
	}

	return item, nil
}

// UpdateQuantity sets a portfolio item's quantity.
func (r *PortfolioItemRepository) UpdateQuantity(itemID string, quantity int64) error {
	query := `
        UPDATE portfolio_item
        SET quantity = ?
        WHERE id = ?
    `

	result, err := r.db.Exec(query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio item quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioItemNotFound
	}

	return nil
}

// DeleteItem removes a portfolio item.
func (r *PortfolioItemRepository) DeleteItem(itemID string) error {
	query := `
        DELETE FROM portfolio_item
        WHERE id = ?
    `

	result, err := r.db.Exec(query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioItemNotFound
	}

	return nil
}
