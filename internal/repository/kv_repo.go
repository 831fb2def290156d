package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filternet/internal/database"
)

// KVRepository stores small string values grouped by namespace. The session
// store keeps one namespace per browser profile.
type KVRepository struct {
	db *database.DB
}

func NewKVRepository(db *database.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves a value. The boolean is false when the key is absent.
func (r *KVRepository) Get(ctx context.Context, namespace, name string) (string, bool, error) {
	var value string
	query := `SELECT value FROM session_values WHERE namespace = ? AND name = ?`
	err := r.db.QueryRowContext(ctx, query, namespace, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get value %s: %w", name, err)
	}
	return value, true, nil
}

// Set updates or inserts a value
func (r *KVRepository) Set(ctx context.Context, namespace, name, value string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Dialect.UpsertValueQuery(), namespace, name, value); err != nil {
		return fmt.Errorf("failed to set value %s: %w", name, err)
	}
	return nil
}

// Delete removes the named keys in a single transaction so readers never
// observe a partially cleared namespace.
func (r *KVRepository) Delete(ctx context.Context, namespace string, names ...string) error {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, name := range names {
			if err := deleteValue(ctx, tx, namespace, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete values: %w", err)
	}
	return nil
}

func deleteValue(ctx context.Context, q database.DBTX, namespace, name string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = ? AND name = ?`, namespace, name)
	return err
}
