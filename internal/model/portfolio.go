package model

import "time"

// Portfolio represents a portfolio from the database.
type Portfolio struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt time.Time
}

// PortfolioItem represents one holding row: a reference to a security plus
// the number of units held. Quantity is always positive; a sale that would
// drop it to zero deletes the row instead.
type PortfolioItem struct {
	ID          string
	PortfolioID string
	SecurityID  string
	Quantity    int64
	CreatedAt   time.Time
}

// PortfolioHolding is a portfolio item joined with its security, the unit the
// valuation engine works on. Holdings are always read in insertion order
// (created_at, id) so bucket order is deterministic.
type PortfolioHolding struct {
	Item     PortfolioItem
	Security Security
}
