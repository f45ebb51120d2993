package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/tevify/internal/shared"
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

	return db
}

func TestKVRepository(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			_, err := repo.Get("missing")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("After Set", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			if err := repo.Set("tevify-library", []byte(`{"state":{}}`)); err != nil {
				t.Fatalf("failed to set: %v", err)
			}

			value, err := repo.Get("tevify-library")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}
			if string(value) != `{"state":{}}` {
				t.Errorf("unexpected value %s", value)
			}
		})
	})

	t.Run("Set", func(t *testing.T) {
		t.Run("Overwrites And Bumps Revision", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			for _, v := range []string{"one", "two", "three"} {
				if err := repo.Set("k", []byte(v)); err != nil {
					t.Fatalf("failed to set %s: %v", v, err)
				}
			}

			entry, err := repo.Entry("k")
			if err != nil {
				t.Fatalf("failed to get entry: %v", err)
			}
			if string(entry.Value) != "three" {
				t.Errorf("expected latest value, got %s", entry.Value)
			}
			if entry.Revision != 3 {
				t.Errorf("expected revision 3, got %d", entry.Revision)
			}
			if entry.UpdatedAt.Before(entry.CreatedAt) {
				t.Error("updated_at should not precede created_at")
			}
		})

		t.Run("Nil Value", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			if err := repo.Set("empty", nil); err != nil {
				t.Fatalf("failed to set nil value: %v", err)
			}
			value, err := repo.Get("empty")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}
			if len(value) != 0 {
				t.Errorf("expected empty value, got %q", value)
			}
		})

		t.Run("Closed Database", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewKVRepository(db)
			db.Close()

			if err := repo.Set("k", []byte("v")); err == nil {
				t.Fatal("expected error writing to closed database")
			}
		})
	})

	t.Run("Keys", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		for _, k := range []string{"b", "a", "c"} {
			if err := repo.Set(k, []byte(k)); err != nil {
				t.Fatalf("failed to set %s: %v", k, err)
			}
		}

		keys, err := repo.Keys()
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
			t.Errorf("expected [a b c], got %v", keys)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Existing", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			repo.Set("k", []byte("v"))

			if err := repo.Delete("k"); err != nil {
				t.Fatalf("failed to delete: %v", err)
			}
			if _, err := repo.Get("k"); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
		})

		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewKVRepository(db)
			if err := repo.Delete("missing"); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Survives Reopen", func(t *testing.T) {
		path := t.TempDir() + "/tevify.db"
		cfg := shared.DatabaseConfig{Path: path}

		db, err := shared.OpenDatabase(cfg)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := NewKVRepository(db).Set("tevify-library", []byte("payload")); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		db.Close()

		db, err = shared.OpenDatabase(cfg)
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		value, err := NewKVRepository(db).Get("tevify-library")
		if err != nil {
			t.Fatalf("failed to get after reopen: %v", err)
		}
		if string(value) != "payload" {
			t.Errorf("expected payload, got %s", value)
		}
	})
}
