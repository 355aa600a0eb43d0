package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/tuneflow/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing record", func(t *testing.T) {
		repo := NewRecordRepository(setupTestDB(t))

		if _, err := repo.Get(ctx, "nope"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("Put then Get", func(t *testing.T) {
		repo := NewRecordRepository(setupTestDB(t))

		if err := repo.Put(ctx, "k", `[1,2]`); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}

		got, err := repo.Get(ctx, "k")
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		if got != `[1,2]` {
			t.Errorf("expected [1,2], got %s", got)
		}
	})

	t.Run("Put overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRecordRepository(db)

		if err := repo.Put(ctx, "k", "first"); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}
		if err := repo.Put(ctx, "k", "second"); err != nil {
			t.Fatalf("failed to overwrite record: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM records WHERE name = 'k'").Scan(&count); err != nil {
			t.Fatalf("failed to count records: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single record, got %d", count)
		}

		if got, _ := repo.Get(ctx, "k"); got != "second" {
			t.Errorf("expected second, got %s", got)
		}

		if _, err := repo.UpdatedAt(ctx, "k"); err != nil {
			t.Errorf("expected updated_at to be readable: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewRecordRepository(setupTestDB(t))

		if err := repo.Put(ctx, "k", "v"); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}
		if err := repo.Delete(ctx, "k"); err != nil {
			t.Fatalf("failed to delete record: %v", err)
		}
		if _, err := repo.Get(ctx, "k"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, "k"); err != nil {
			t.Errorf("deleting a missing record should not fail: %v", err)
		}
		if _, err := repo.UpdatedAt(ctx, "k"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRecordRepository(db)
		db.Close()

		if _, err := repo.Get(ctx, "k"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage from closed database, got %v", err)
		}
		if err := repo.Put(ctx, "k", "v"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage from closed database, got %v", err)
		}
	})
}
