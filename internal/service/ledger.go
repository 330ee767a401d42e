// Package service implements the collection synchronizer: the in-memory
// menu, sales, and expense collections kept consistent with whichever store
// the persistence gateway selected.
//
// Every mutation goes to the store first. Only after the store confirms does
// the in-memory collection change, so a remote failure leaves the local view
// and the remote truth in agreement rather than silently diverging.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sherokitchen/manager/internal/collection"
	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/metrics"
	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/split"
	"github.com/sherokitchen/manager/internal/storage"
)

// ErrMenuItemNotFound is returned when a sale references an unknown menu
// item.
var ErrMenuItemNotFound = errors.New("menu item not found")

func menuID(i models.MenuItem) string        { return i.ID }
func saleID(e models.SaleEntry) string       { return e.ID }
func expenseID(e models.ExpenseEntry) string { return e.ID }

// Ledger synchronizes the in-memory collections with the active store.
//
// The source system is single-user and event-driven; the mutex exists only
// because Go's HTTP server handles requests concurrently. Each mutation
// still runs as one logical unit.
type Ledger struct {
	store storage.Store

	mu       sync.Mutex
	menu     []models.MenuItem
	sales    []models.SaleEntry
	expenses []models.ExpenseEntry
}

// NewLedger creates a Ledger backed by the given store.
func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// Load reads all three collections from the store. It runs once at startup,
// before the server accepts requests.
func (l *Ledger) Load(ctx context.Context) error {
	snap, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.menu = snap.Menu
	l.sales = snap.Sales
	l.expenses = snap.Expenses
	slog.Info("Collections loaded",
		"mode", l.store.Mode(),
		"menu_items", len(l.menu),
		"sales", len(l.sales),
		"expenses", len(l.expenses),
	)
	return nil
}

// Mode reports the persistence mode resolved at startup.
func (l *Ledger) Mode() storage.Mode { return l.store.Mode() }

// Ping exposes the store's non-mutating connection probe.
func (l *Ledger) Ping(ctx context.Context) error { return l.store.Ping(ctx) }

// MenuItems returns a copy of the menu collection in its held order.
func (l *Ledger) MenuItems() []models.MenuItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.MenuItem, len(l.menu))
	copy(out, l.menu)
	return out
}

// MenuItem looks up a menu item by id.
func (l *Ledger) MenuItem(id string) (models.MenuItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collection.Find(l.menu, id, menuID)
}

// Sales returns a copy of the sales collection, most recent first.
func (l *Ledger) Sales() []models.SaleEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.SaleEntry, len(l.sales))
	copy(out, l.sales)
	return out
}

// Expenses returns a copy of the expense collection in its held order.
func (l *Ledger) Expenses() []models.ExpenseEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.ExpenseEntry, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// SaveMenuItem upserts a menu item: replaced in place when the id exists,
// appended otherwise. A missing id gets a fresh UUID.
func (l *Ledger) SaveMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.UpsertMenuItem(ctx, item)
	metrics.ObserveMutation("menu_item", "upsert", err)
	if err != nil {
		slog.Error("SaveMenuItem aborted, store rejected the write", "id", item.ID, "error", err)
		return models.MenuItem{}, err
	}
	l.menu, _ = collection.Upsert(l.menu, item, menuID, collection.Append)
	return item, nil
}

// DeleteMenuItem removes a menu item by id. A nonexistent id is a no-op,
// reported via the bool. Historical sales referencing the item keep their
// snapshots untouched.
func (l *Ledger) DeleteMenuItem(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := collection.Find(l.menu, id, menuID); !ok {
		slog.Info("DeleteMenuItem: no such item", "id", id)
		return false, nil
	}
	err := l.store.DeleteMenuItem(ctx, id)
	metrics.ObserveMutation("menu_item", "delete", err)
	if err != nil {
		slog.Error("DeleteMenuItem aborted, store rejected the delete", "id", id, "error", err)
		return false, err
	}
	l.menu, _ = collection.Delete(l.menu, id, menuID)
	return true, nil
}

// BulkAddMenuItems appends all items as new records, without existence
// checks, issuing one independent store write each. On a mid-batch failure
// the items written so far stay applied and the returned count says how
// many; the caller surfaces the partial result.
func (l *Ledger) BulkAddMenuItems(ctx context.Context, items []models.MenuItem) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		err := l.store.UpsertMenuItem(ctx, items[i])
		metrics.ObserveMutation("menu_item", "bulk_upsert", err)
		if err != nil {
			l.menu = append(l.menu, items[:i]...)
			slog.Error("Bulk import interrupted", "applied", i, "total", len(items), "error", err)
			return i, fmt.Errorf("bulk import interrupted after %d of %d items: %w", i, len(items), err)
		}
	}
	l.menu = append(l.menu, items...)
	return len(items), nil
}

// RecordSale snapshots the referenced menu item onto a sale and upserts it.
// An empty id creates a new sale, prepended most-recent-first; an existing
// id re-snapshots from the currently selected item and replaces the sale in
// place, leaving every other sale untouched.
func (l *Ledger) RecordSale(ctx context.Context, id string, day date.Date, menuItemID string, quantity int, notes string) (models.SaleEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := collection.Find(l.menu, menuItemID, menuID)
	if !ok {
		return models.SaleEntry{}, fmt.Errorf("%w: %s", ErrMenuItemNotFound, menuItemID)
	}
	if id == "" {
		id = uuid.New().String()
	}
	sale := split.NewSale(id, day, item, quantity, notes)

	err := l.store.UpsertSale(ctx, sale)
	metrics.ObserveMutation("sale", "upsert", err)
	if err != nil {
		slog.Error("RecordSale aborted, store rejected the write", "id", id, "error", err)
		return models.SaleEntry{}, err
	}
	l.sales, _ = collection.Upsert(l.sales, sale, saleID, collection.Prepend)
	return sale, nil
}

// DeleteSale removes a sale by id. A nonexistent id is a no-op.
func (l *Ledger) DeleteSale(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := collection.Find(l.sales, id, saleID); !ok {
		slog.Info("DeleteSale: no such sale", "id", id)
		return false, nil
	}
	err := l.store.DeleteSale(ctx, id)
	metrics.ObserveMutation("sale", "delete", err)
	if err != nil {
		slog.Error("DeleteSale aborted, store rejected the delete", "id", id, "error", err)
		return false, err
	}
	l.sales, _ = collection.Delete(l.sales, id, saleID)
	return true, nil
}

// SaveExpense upserts an expense: replaced in place when the id exists,
// appended otherwise. A missing id gets a fresh UUID.
func (l *Ledger) SaveExpense(ctx context.Context, expense models.ExpenseEntry) (models.ExpenseEntry, error) {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.UpsertExpense(ctx, expense)
	metrics.ObserveMutation("expense", "upsert", err)
	if err != nil {
		slog.Error("SaveExpense aborted, store rejected the write", "id", expense.ID, "error", err)
		return models.ExpenseEntry{}, err
	}
	l.expenses, _ = collection.Upsert(l.expenses, expense, expenseID, collection.Append)
	return expense, nil
}

// DeleteExpense removes an expense by id. A nonexistent id is a no-op.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := collection.Find(l.expenses, id, expenseID); !ok {
		slog.Info("DeleteExpense: no such expense", "id", id)
		return false, nil
	}
	err := l.store.DeleteExpense(ctx, id)
	metrics.ObserveMutation("expense", "delete", err)
	if err != nil {
		slog.Error("DeleteExpense aborted, store rejected the delete", "id", id, "error", err)
		return false, err
	}
	l.expenses, _ = collection.Delete(l.expenses, id, expenseID)
	return true, nil
}
