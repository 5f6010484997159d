package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
)

// SettingRepository provides data access methods for the system_setting table.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a setting value by key.
// Returns apperrors.ErrSettingNotFound when the key does not exist.
func (r *SettingRepository) Get(key string) (string, error) {
	query := `
        SELECT value
        FROM system_setting
        WHERE "key" = ?
    `

	var value string
	err := r.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_setting table: %w", err)
	}

	return value, nil
}

// Upsert stores a setting value, overwriting any existing value for the key.
func (r *SettingRepository) Upsert(key, value string) error {
	query := `
        INSERT INTO system_setting (id, "key", value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT("key") DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at
    `

	_, err := r.db.Exec(query, uuid.New().String(), key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert system setting: %w", err)
	}

	return nil
}
