// Package postgres provides the remote implementation of the storage.Store
// interface on a hosted Postgres database.
//
// Column names follow the storage convention (my_share, total_shero_share);
// translation to the internal camelCase models happens here and nowhere
// else. The sales table stores only quantity-scaled totals; unit snapshots
// are recovered as total/quantity on fetch.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    price DOUBLE PRECISION NOT NULL DEFAULT 0,
    my_share DOUBLE PRECISION NOT NULL DEFAULT 0,
    shero_share DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sales (
    id TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    menu_item_id TEXT NOT NULL DEFAULT '',
    item_name TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL DEFAULT 1,
    total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_my_share DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_shero_share DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT ''
);
`

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a Postgres connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at the given DSN and ensures the schema
// exists. Any failure here makes the persistence gateway fall back to the
// local store.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("remote store unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Mode reports that this store is the remote store of record.
func (s *Store) Mode() storage.Mode { return storage.ModeRemote }

const pingQuery = "SELECT id FROM menu_items LIMIT 1"

// Ping verifies reachability and permissions with a minimal read. It never
// mutates data.
func (s *Store) Ping(ctx context.Context) error {
	return ping(ctx, s.pool)
}

// Probe checks a candidate DSN with the same minimal read as Ping, without
// touching the schema. Used by the settings connection test; resolving a
// store for real goes through New.
func Probe(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()
	return ping(ctx, pool)
}

func ping(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := pool.Query(ctx, pingQuery)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// Load reads all three collections. Sales and expenses come back most
// recent first; menu items in name order.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	menu, err := s.fetchMenu(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.fetchSales(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.fetchExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return &storage.Snapshot{Menu: menu, Sales: sales, Expenses: expenses}, nil
}

func (s *Store) fetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, price, my_share, shero_share
		FROM menu_items
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.MyShare, &m.SheroShare); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *Store) fetchSales(ctx context.Context) ([]models.SaleEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, menu_item_id, item_name, category, quantity,
		       total_amount, total_my_share, total_shero_share, notes
		FROM sales
		ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	defer rows.Close()

	var sales []models.SaleEntry
	for rows.Next() {
		var e models.SaleEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.MenuItemID, &e.ItemName, &e.Category, &e.Quantity,
			&e.TotalAmount, &e.TotalMyShare, &e.TotalSheroShare, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		// Unit snapshots are not stored remotely; recover them from the
		// totals the same way the totals were built.
		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		e.UnitPrice = e.TotalAmount / float64(qty)
		e.UnitMyShare = e.TotalMyShare / float64(qty)
		e.UnitSheroShare = e.TotalSheroShare / float64(qty)
		sales = append(sales, e)
	}
	return sales, rows.Err()
}

func (s *Store) fetchExpenses(ctx context.Context) ([]models.ExpenseEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, category, amount, notes
		FROM expenses
		ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.ExpenseEntry
	for rows.Next() {
		var e models.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpsertMenuItem inserts or replaces a menu item by id.
func (s *Store) UpsertMenuItem(ctx context.Context, item models.MenuItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, category, price, my_share, shero_share)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			my_share = excluded.my_share,
			shero_share = excluded.shero_share`,
		item.ID, item.Name, item.Category, item.Price, item.MyShare, item.SheroShare,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}
	return nil
}

// DeleteMenuItem removes a menu item by id. Unknown ids are a no-op.
func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// UpsertSale inserts or replaces a sale by id.
func (s *Store) UpsertSale(ctx context.Context, sale models.SaleEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sales (id, date, menu_item_id, item_name, category, quantity,
		                   total_amount, total_my_share, total_shero_share, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			menu_item_id = excluded.menu_item_id,
			item_name = excluded.item_name,
			category = excluded.category,
			quantity = excluded.quantity,
			total_amount = excluded.total_amount,
			total_my_share = excluded.total_my_share,
			total_shero_share = excluded.total_shero_share,
			notes = excluded.notes`,
		sale.ID, sale.Date, sale.MenuItemID, sale.ItemName, sale.Category, sale.Quantity,
		sale.TotalAmount, sale.TotalMyShare, sale.TotalSheroShare, sale.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sale: %w", err)
	}
	return nil
}

// DeleteSale removes a sale by id. Unknown ids are a no-op.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM sales WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

// UpsertExpense inserts or replaces an expense by id.
func (s *Store) UpsertExpense(ctx context.Context, expense models.ExpenseEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO expenses (id, date, category, amount, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			category = excluded.category,
			amount = excluded.amount,
			notes = excluded.notes`,
		expense.ID, expense.Date, expense.Category, expense.Amount, expense.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert expense: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense by id. Unknown ids are a no-op.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
