// Package sqlite provides the local fallback implementation of the
// storage.Store interface.
//
// The durable format is three independently keyed JSON blobs, one per
// collection, each a serialized ordered sequence of records. There is no
// per-record durability: every mutation rewrites the affected collection
// wholesale. A small settings table additionally persists user-supplied
// configuration such as the remote connection string.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sherokitchen/manager/internal/collection"
	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/storage"
)

// Collection blob keys.
const (
	keyMenu     = "menuItems"
	keySales    = "sales"
	keyExpenses = "expenses"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a local SQLite file.
type Store struct {
	db *sql.DB
}

// New creates a Store at the given database path. It creates the parent
// directories and the schema automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Mode reports that this store is the local fallback.
func (s *Store) Mode() storage.Mode { return storage.ModeLocal }

// Ping verifies the database file is readable.
func (s *Store) Ping(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&n); err != nil {
		return fmt.Errorf("local store unreadable: %w", err)
	}
	return nil
}

// Load reads all three collection blobs. Missing blobs load as empty
// collections, not errors.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	menu, err := loadBlob[models.MenuItem](ctx, s.db, keyMenu)
	if err != nil {
		return nil, err
	}
	sales, err := loadBlob[models.SaleEntry](ctx, s.db, keySales)
	if err != nil {
		return nil, err
	}
	expenses, err := loadBlob[models.ExpenseEntry](ctx, s.db, keyExpenses)
	if err != nil {
		return nil, err
	}
	return &storage.Snapshot{Menu: menu, Sales: sales, Expenses: expenses}, nil
}

// UpsertMenuItem rewrites the menu blob with the item replaced in place or
// appended.
func (s *Store) UpsertMenuItem(ctx context.Context, item models.MenuItem) error {
	return upsertBlob(ctx, s.db, keyMenu, item,
		func(i models.MenuItem) string { return i.ID }, collection.Append)
}

// DeleteMenuItem rewrites the menu blob without the given item.
func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	return deleteBlob(ctx, s.db, keyMenu, id,
		func(i models.MenuItem) string { return i.ID })
}

// UpsertSale rewrites the sales blob; new sales are prepended so the
// collection stays most-recent-first.
func (s *Store) UpsertSale(ctx context.Context, sale models.SaleEntry) error {
	return upsertBlob(ctx, s.db, keySales, sale,
		func(e models.SaleEntry) string { return e.ID }, collection.Prepend)
}

// DeleteSale rewrites the sales blob without the given sale.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	return deleteBlob(ctx, s.db, keySales, id,
		func(e models.SaleEntry) string { return e.ID })
}

// UpsertExpense rewrites the expenses blob with the expense replaced in
// place or appended.
func (s *Store) UpsertExpense(ctx context.Context, expense models.ExpenseEntry) error {
	return upsertBlob(ctx, s.db, keyExpenses, expense,
		func(e models.ExpenseEntry) string { return e.ID }, collection.Append)
}

// DeleteExpense rewrites the expenses blob without the given expense.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return deleteBlob(ctx, s.db, keyExpenses, id,
		func(e models.ExpenseEntry) string { return e.ID })
}

// Setting returns the persisted value for a settings key, or "" when unset.
func (s *Store) Setting(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", name, err)
	}
	return value, nil
}

// SetSetting persists a settings key.
func (s *Store) SetSetting(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		name, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", name, err)
	}
	return nil
}

// DeleteSetting removes a settings key. Removing an unset key is a no-op.
func (s *Store) DeleteSetting(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", name, err)
	}
	return nil
}

func loadBlob[T any](ctx context.Context, db *sql.DB, name string) ([]T, error) {
	var data string
	err := db.QueryRowContext(ctx,
		"SELECT data FROM collections WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return items, nil
}

func saveBlob[T any](ctx context.Context, db *sql.DB, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO collections (name, data) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET data = excluded.data",
		name, string(data))
	if err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

// upsertBlob applies the shared ordered-upsert rule to the stored sequence,
// so the blob and the synchronizer's in-memory collection stay identical.
func upsertBlob[T any](ctx context.Context, db *sql.DB, name string, rec T, id func(T) string, pos collection.Position) error {
	items, err := loadBlob[T](ctx, db, name)
	if err != nil {
		return err
	}
	items, _ = collection.Upsert(items, rec, id, pos)
	return saveBlob(ctx, db, name, items)
}

func deleteBlob[T any](ctx context.Context, db *sql.DB, name, key string, id func(T) string) error {
	items, err := loadBlob[T](ctx, db, name)
	if err != nil {
		return err
	}
	items, removed := collection.Delete(items, key, id)
	if !removed {
		return nil
	}
	return saveBlob(ctx, db, name, items)
}
