package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// SecurityRepository provides read access to the security table.
// Securities are written by the market-data ingestion process; the valuation
// engine only reads them.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

// GetSecurities retrieves all securities ordered by ticker.
// Returns an empty slice if no securities exist.
func (r *SecurityRepository) GetSecurities() ([]model.Security, error) {
	query := `
        SELECT id, ticker, name, price, currency, sector, country, priced_at
        FROM security
        ORDER BY ticker
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query security table: %w", err)
	}
	defer rows.Close()

	securities := []model.Security{}

	for rows.Next() {
		s, err := scanSecurity(rows.Scan)
		if err != nil {
			return nil, err
		}
		securities = append(securities, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security table: %w", err)
	}

	return securities, nil
}

// GetSecurity retrieves a single security by ID.
func (r *SecurityRepository) GetSecurity(securityID string) (model.Security, error) {
	query := `
        SELECT id, ticker, name, price, currency, sector, country, priced_at
        FROM security
        WHERE id = ?
    `

	s, err := scanSecurity(r.db.QueryRow(query, securityID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Security{}, apperrors.ErrSecurityNotFound
	}
	if err != nil {
		return model.Security{}, err
	}

	return s, nil
}

// scanSecurity scans one security row through the provided scan function so
// the same decimal and null handling serves both Query and QueryRow paths.
func scanSecurity(scan func(dest ...any) error) (model.Security, error) {
	var s model.Security
	var price string
	var sector, country sql.NullString
	var pricedAt sql.NullTime

	err := scan(&s.ID, &s.Ticker, &s.Name, &price, &s.Currency, &sector, &country, &pricedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Security{}, err
	}
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to scan security row: %w", err)
	}

	s.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to parse security price %q: %w", price, err)
	}

	if sector.Valid {
		s.Sector = model.Sector(sector.String)
	}
	if country.Valid {
		s.Country = country.String
	}
	if pricedAt.Valid {
		s.PricedAt = pricedAt.Time
	}

	return s, nil
}
