package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// GraphRepository provides data access methods for the
// graph_dataset_materialized table: pre-calculated graph datasets written by
// the daily snapshot job and served without recomputing valuations.
type GraphRepository struct {
	db *sql.DB
}

// NewGraphRepository creates a new GraphRepository with the provided database connection.
func NewGraphRepository(db *sql.DB) *GraphRepository {
	return &GraphRepository{db: db}
}

// ReplaceDataset atomically replaces the materialized slices for one
// portfolio/variant pair. Delete and insert run in a single transaction so a
// reader never observes a half-written dataset.
func (r *GraphRepository) ReplaceDataset(dataset model.GraphDataSet) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	deleteQuery := `
        DELETE FROM graph_dataset_materialized
        WHERE portfolio_id = ? AND variant = ?
    `
	if _, err := tx.Exec(deleteQuery, dataset.PortfolioID, string(dataset.Variant)); err != nil {
		return fmt.Errorf("failed to delete stale graph dataset: %w", err)
	}

	insertQuery := `
        INSERT INTO graph_dataset_materialized
            (id, portfolio_id, variant, position, label, cost, calculated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now().UTC()
	for i, slice := range dataset.Slices {
		_, err := tx.Exec(
			insertQuery,
			uuid.New().String(),
			dataset.PortfolioID,
			string(dataset.Variant),
			i,
			slice.Label,
			slice.Cost.String(),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert graph dataset slice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph dataset: %w", err)
	}

	return nil
}

// GetDataset retrieves the materialized dataset for a portfolio/variant pair,
// ordered by stored position. Returns apperrors.ErrGraphDataNotFound when the
// snapshot job has not materialized this combination yet.
func (r *GraphRepository) GetDataset(portfolioID string, variant model.GraphVariant) (model.GraphDataSet, error) {
	query := `
        SELECT label, cost
        FROM graph_dataset_materialized
        WHERE portfolio_id = ? AND variant = ?
        ORDER BY position
    `

	rows, err := r.db.Query(query, portfolioID, string(variant))
	if err != nil {
		return model.GraphDataSet{}, fmt.Errorf("failed to query graph_dataset_materialized table: %w", err)
	}
	defer rows.Close()

	dataset := model.GraphDataSet{
		PortfolioID: portfolioID,
		Variant:     variant,
		Slices:      []model.GraphSlice{},
	}

	for rows.Next() {
		var label, cost string
		if err := rows.Scan(&label, &cost); err != nil {
			return model.GraphDataSet{}, fmt.Errorf("failed to scan graph dataset row: %w", err)
		}

		c, err := decimal.NewFromString(cost)
		if err != nil {
			return model.GraphDataSet{}, fmt.Errorf("failed to parse slice cost %q: %w", cost, err)
		}

		dataset.Slices = append(dataset.Slices, model.GraphSlice{Label: label, Cost: c})
	}

	if err = rows.Err(); err != nil {
		return model.GraphDataSet{}, fmt.Errorf("error iterating graph_dataset_materialized table: %w", err)
	}

	if len(dataset.Slices) == 0 {
		return model.GraphDataSet{}, apperrors.ErrGraphDataNotFound
	}

	return dataset, nil
}
