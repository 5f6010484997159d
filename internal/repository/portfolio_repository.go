package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios ordered by creation time.
// Returns an empty slice if no portfolios exist.
func (r *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `
        SELECT id, name, created_at
        FROM portfolio
        ORDER BY created_at, id
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves a single portfolio by ID.
func (r *PortfolioRepository) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	query := `
        SELECT id, name, created_at
        FROM portfolio
        WHERE id = ?
    `

	var p model.Portfolio
	err := r.db.QueryRow(query, portfolioID).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// CreatePortfolio inserts a new portfolio and returns it with a generated ID.
func (r *PortfolioRepository) CreatePortfolio(name string) (model.Portfolio, error) {
	p := model.Portfolio{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `
        INSERT INTO portfolio (id, name, created_at)
        VALUES (?, ?, ?)
    `

	if _, err := r.db.Exec(query, p.ID, p.Name, p.CreatedAt); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return p, nil
}
