package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	var name string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "session_values").Scan(&name)
	if err != nil {
		t.Errorf("Table session_values not found: %v", err)
	}

	// Running again is a no-op
	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, db.Dialect.UpsertValueQuery(), "browser-1", "filternet_auth_token", "token-1")
		return err
	})
	if err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM session_values WHERE namespace = ?", "browser-1").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 value, got %d", count)
	}

	errAbort := errors.New("abort")
	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_values WHERE namespace = ?", "browser-1"); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Expected abort error, got %v", err)
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM session_values WHERE namespace = ?", "browser-1").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected rollback to keep the value, got %d rows", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, db.Dialect.UpsertValueQuery(), "browser-1", "filternet_auth_token", "token-1"); err != nil {
		t.Fatalf("Failed to seed value: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var value string
			err := db.QueryRowContext(ctx, "SELECT value FROM session_values WHERE namespace = ? AND name = ?", "browser-1", "filternet_auth_token").Scan(&value)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if value != "token-1" {
				t.Errorf("Expected value 'token-1', got '%s'", value)
			}
		}()
	}
	wg.Wait()
}
