package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sherokitchen/manager/internal/collection"
	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/storage"
)

// fakeStore is an in-memory storage.Store that can be told to fail, so the
// store-first contract is testable without a database.
type fakeStore struct {
	snap     storage.Snapshot
	failNext error
	writes   int
}

func (f *fakeStore) take() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	snap := f.snap
	return &snap, nil
}

func (f *fakeStore) UpsertMenuItem(ctx context.Context, item models.MenuItem) error {
	if err := f.take(); err != nil {
		return err
	}
	f.writes++
	f.snap.Menu, _ = collection.Upsert(f.snap.Menu, item,
		func(i models.MenuItem) string { return i.ID }, collection.Append)
	return nil
}

func (f *fakeStore) DeleteMenuItem(ctx context.Context, id string) error {
	if err := f.take(); err != nil {
		return err
	}
	f.snap.Menu, _ = collection.Delete(f.snap.Menu, id,
		func(i models.MenuItem) string { return i.ID })
	return nil
}

func (f *fakeStore) UpsertSale(ctx context.Context, sale models.SaleEntry) error {
	if err := f.take(); err != nil {
		return err
	}
	f.writes++
	f.snap.Sales, _ = collection.Upsert(f.snap.Sales, sale,
		func(e models.SaleEntry) string { return e.ID }, collection.Prepend)
	return nil
}

func (f *fakeStore) DeleteSale(ctx context.Context, id string) error {
	if err := f.take(); err != nil {
		return err
	}
	f.snap.Sales, _ = collection.Delete(f.snap.Sales, id,
		func(e models.SaleEntry) string { return e.ID })
	return nil
}

func (f *fakeStore) UpsertExpense(ctx context.Context, expense models.ExpenseEntry) error {
	if err := f.take(); err != nil {
		return err
	}
	f.writes++
	f.snap.Expenses, _ = collection.Upsert(f.snap.Expenses, expense,
		func(e models.ExpenseEntry) string { return e.ID }, collection.Append)
	return nil
}

func (f *fakeStore) DeleteExpense(ctx context.Context, id string) error {
	if err := f.take(); err != nil {
		return err
	}
	f.snap.Expenses, _ = collection.Delete(f.snap.Expenses, id,
		func(e models.ExpenseEntry) string { return e.ID })
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Mode() storage.Mode             { return storage.ModeRemote }
func (f *fakeStore) Close() error                   { return nil }

var _ storage.Store = (*fakeStore)(nil)

func newLoadedLedger(t *testing.T, store *fakeStore) *Ledger {
	t.Helper()
	l := NewLedger(store)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return l
}

func TestSaveMenuItem(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	item, err := l.SaveMenuItem(ctx, models.MenuItem{Name: "Podimas", Price: 193, MyShare: 68, SheroShare: 125})
	if err != nil {
		t.Fatalf("SaveMenuItem failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated ID")
	}

	// Edit in place.
	item.Price = 200
	if _, err := l.SaveMenuItem(ctx, item); err != nil {
		t.Fatalf("SaveMenuItem (edit) failed: %v", err)
	}
	menu := l.MenuItems()
	if len(menu) != 1 || menu[0].Price != 200 {
		t.Errorf("menu = %+v", menu)
	}
}

func TestMutationAbortsWhenStoreFails(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	store.failNext = errors.New("connection reset")
	_, err := l.SaveMenuItem(ctx, models.MenuItem{ID: "x", Name: "Kootu"})
	if err == nil {
		t.Fatal("expected the store error to propagate")
	}
	if len(l.MenuItems()) != 0 {
		t.Error("in-memory collection changed despite store failure")
	}
}

func TestRecordSaleSnapshots(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	item, _ := l.SaveMenuItem(ctx, models.MenuItem{Name: "Podimas", Category: "Side Dish", Price: 200, MyShare: 120, SheroShare: 80})

	sale, err := l.RecordSale(ctx, "", date.MustParse("2024-01-15"), item.ID, 3, "")
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if sale.TotalAmount != 600 || sale.TotalMyShare != 360 || sale.TotalSheroShare != 240 {
		t.Errorf("totals = %+v", sale)
	}

	// Changing the catalog must not change the recorded sale.
	item.Price = 999
	if _, err := l.SaveMenuItem(ctx, item); err != nil {
		t.Fatalf("SaveMenuItem failed: %v", err)
	}
	got := l.Sales()[0]
	if got.UnitPrice != 200 || got.TotalAmount != 600 {
		t.Errorf("sale snapshot followed catalog edit: %+v", got)
	}

	// Deleting the item leaves the sale retrievable and unchanged.
	if _, err := l.DeleteMenuItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteMenuItem failed: %v", err)
	}
	got = l.Sales()[0]
	if got.TotalAmount != 600 || got.ItemName != "Podimas" {
		t.Errorf("sale changed after menu item deletion: %+v", got)
	}
}

func TestRecordSaleUnknownItem(t *testing.T) {
	l := newLoadedLedger(t, &fakeStore{})
	_, err := l.RecordSale(context.Background(), "", date.MustParse("2024-01-15"), "ghost", 1, "")
	if !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("err = %v, want ErrMenuItemNotFound", err)
	}
}

func TestEditSaleLeavesOthersUntouched(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	item, _ := l.SaveMenuItem(ctx, models.MenuItem{Name: "Podimas", Price: 200, MyShare: 120, SheroShare: 80})
	first, _ := l.RecordSale(ctx, "", date.MustParse("2024-01-15"), item.ID, 1, "")
	second, _ := l.RecordSale(ctx, "", date.MustParse("2024-01-15"), item.ID, 2, "")

	// Reprice, then edit only the second sale: it re-snapshots current terms.
	item.Price = 300
	item.MyShare = 200
	item.SheroShare = 100
	l.SaveMenuItem(ctx, item)
	edited, err := l.RecordSale(ctx, second.ID, date.MustParse("2024-01-15"), item.ID, 2, "")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.TotalAmount != 600 {
		t.Errorf("edited total = %v, want 600 at the new price", edited.TotalAmount)
	}

	sales := l.Sales()
	if len(sales) != 2 {
		t.Fatalf("len = %d, want 2", len(sales))
	}
	// Edited sale keeps its position (prepended second, so index 0).
	if sales[0].ID != second.ID || sales[0].TotalAmount != 600 {
		t.Errorf("sales[0] = %+v", sales[0])
	}
	if sales[1].ID != first.ID || sales[1].TotalAmount != 200 {
		t.Errorf("first sale was touched by the edit: %+v", sales[1])
	}
}

func TestDeleteNonexistentIsNoOp(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	for name, del := range map[string]func() (bool, error){
		"menu":    func() (bool, error) { return l.DeleteMenuItem(ctx, "nope") },
		"sale":    func() (bool, error) { return l.DeleteSale(ctx, "nope") },
		"expense": func() (bool, error) { return l.DeleteExpense(ctx, "nope") },
	} {
		removed, err := del()
		if err != nil || removed {
			t.Errorf("%s delete(nope) = %v, %v; want false, nil", name, removed, err)
		}
	}
	if store.writes != 0 {
		t.Errorf("store saw %d writes for no-op deletes", store.writes)
	}
}

func TestBulkAddPartialFailure(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	if _, err := l.BulkAddMenuItems(ctx, []models.MenuItem{
		{Name: "One", Price: 10}, {Name: "Two", Price: 20},
	}); err != nil {
		t.Fatalf("bulk add failed: %v", err)
	}
	if len(l.MenuItems()) != 2 {
		t.Fatalf("menu len = %d, want 2", len(l.MenuItems()))
	}

	// Second batch fails on its first write: nothing new applied, error
	// reports the applied count.
	store.failNext = errors.New("timeout")
	n, err := l.BulkAddMenuItems(ctx, []models.MenuItem{{Name: "Three", Price: 30}})
	if err == nil {
		t.Fatal("expected bulk failure to propagate")
	}
	if n != 0 {
		t.Errorf("applied = %d, want 0", n)
	}
	if len(l.MenuItems()) != 2 {
		t.Errorf("menu len = %d after failed batch, want 2", len(l.MenuItems()))
	}
}

func TestSalesPrependExpensesAppend(t *testing.T) {
	store := &fakeStore{}
	l := newLoadedLedger(t, store)
	ctx := context.Background()

	item, _ := l.SaveMenuItem(ctx, models.MenuItem{Name: "Podimas", Price: 100, MyShare: 60, SheroShare: 40})
	a, _ := l.RecordSale(ctx, "", date.MustParse("2024-01-15"), item.ID, 1, "")
	b, _ := l.RecordSale(ctx, "", date.MustParse("2024-01-16"), item.ID, 1, "")
	sales := l.Sales()
	if sales[0].ID != b.ID || sales[1].ID != a.ID {
		t.Error("sales must be most-recent-first")
	}

	e1, _ := l.SaveExpense(ctx, models.ExpenseEntry{Date: "2024-01-15", Category: "Ingredients", Amount: 100})
	e2, _ := l.SaveExpense(ctx, models.ExpenseEntry{Date: "2024-01-16", Category: "Packaging", Amount: 50})
	expenses := l.Expenses()
	if expenses[0].ID != e1.ID || expenses[1].ID != e2.ID {
		t.Error("expenses must preserve insertion order, appending new ones")
	}
}
