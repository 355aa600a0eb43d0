package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tuneflow/internal/shared"
)

var _ RecordStore = (*RecordRepository)(nil)

// RecordRepository implements [RecordStore] on the records table.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Get retrieves the value stored under name.
func (r *RecordRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM records WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", shared.ErrRecordNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read record %s: %v", shared.ErrStorage, name, err)
	}
	return value, nil
}

// Put overwrites the value stored under name, creating the record if needed.
func (r *RecordRepository) Put(ctx context.Context, name, value string) error {
	query := `
		INSERT INTO records (name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, name, value, now, now); err != nil {
		return fmt.Errorf("%w: failed to write record %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// Delete removes the record stored under name. Deleting a missing record is not an error.
func (r *RecordRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE name = ?", name); err != nil {
		return fmt.Errorf("%w: failed to delete record %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// UpdatedAt reports when the record was last written.
func (r *RecordRepository) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var updated time.Time
	err := r.db.QueryRowContext(ctx, "SELECT updated_at FROM records WHERE name = ?", name).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to read record %s: %v", shared.ErrStorage, name, err)
	}
	return updated, nil
}
