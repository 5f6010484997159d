package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// singletonRateID is the fixed primary key of the one exchange_rate row.
// The record is process-wide shared state: created on first access, mutated
// in place when stale, never deleted.
const singletonRateID = 1

// ExchangeRateRepository provides data access methods for the exchange_rate
// singleton row.
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository creates a new ExchangeRateRepository with the provided database connection.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// Get retrieves the singleton exchange rate record.
// Returns apperrors.ErrExchangeRateNotFound when the record has never been created.
func (r *ExchangeRateRepository) Get() (model.ExchangeRate, error) {
	query := `
        SELECT last_updated, eur_rate, rub_rate
        FROM exchange_rate
        WHERE id = ?
    `

	var rec model.ExchangeRate
	var eurRate, rubRate string

	err := r.db.QueryRow(query, singletonRateID).Scan(&rec.LastUpdated, &eurRate, &rubRate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to query exchange_rate table: %w", err)
	}

	rec.EURRate, err = decimal.NewFromString(eurRate)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to parse eur_rate %q: %w", eurRate, err)
	}
	rec.RUBRate, err = decimal.NewFromString(rubRate)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to parse rub_rate %q: %w", rubRate, err)
	}

	return rec, nil
}

// Upsert writes the singleton record, creating it on first use and otherwise
// overwriting rates and date in place. The upsert is atomic on the fixed
// primary key, so concurrent same-day refreshes are idempotent.
func (r *ExchangeRateRepository) Upsert(rec model.ExchangeRate) error {
	query := `
        INSERT INTO exchange_rate (id, last_updated, eur_rate, rub_rate)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            last_updated = excluded.last_updated,
            eur_rate = excluded.eur_rate,
            rub_rate = excluded.rub_rate
    `

	_, err := r.db.Exec(query, singletonRateID, rec.LastUpdated, rec.EURRate.String(), rec.RUBRate.String())
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}

	return nil
}
