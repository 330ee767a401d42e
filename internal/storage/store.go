// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/sherokitchen/manager/internal/models"
)

// Mode identifies which kind of store is the store of record. It is resolved
// once at startup and never changes for the process lifetime.
type Mode string

const (
	// ModeRemote means the remote Postgres store is authoritative and every
	// mutation is confirmed there before memory is updated.
	ModeRemote Mode = "remote"
	// ModeLocal means the local fallback store is authoritative and each
	// mutation rewrites the affected collection wholesale.
	ModeLocal Mode = "local"
)

// Snapshot is the full persisted state: the three collections, each an
// ordered sequence.
type Snapshot struct {
	Menu     []models.MenuItem
	Sales    []models.SaleEntry
	Expenses []models.ExpenseEntry
}

// Store is the persistence gateway's capability abstraction. The remote
// (Postgres) and local (SQLite) implementations are interchangeable; the
// synchronizer never branches on connectivity.
//
// Upserts are insert-or-replace-by-id. Deletes of unknown ids are no-ops.
// Insertion order is part of the contract: new sales go first, new menu
// items and expenses go last, and replaced records keep their position.
type Store interface {
	// Load reads all three collections at startup.
	Load(ctx context.Context) (*Snapshot, error)

	UpsertMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	UpsertSale(ctx context.Context, sale models.SaleEntry) error
	DeleteSale(ctx context.Context, id string) error

	UpsertExpense(ctx context.Context, expense models.ExpenseEntry) error
	DeleteExpense(ctx context.Context, id string) error

	// Ping verifies reachability with a minimal read. It must not mutate
	// anything.
	Ping(ctx context.Context) error

	Mode() Mode

	// Close releases any resources held by the store.
	Close() error
}
