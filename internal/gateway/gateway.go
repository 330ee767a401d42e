// Package gateway resolves, once at startup, whether the remote store or the
// local fallback store is authoritative. The decision is terminal for the
// process lifetime; there is no mid-session failover.
package gateway

import (
	"context"
	"log/slog"

	"github.com/sherokitchen/manager/internal/storage"
	"github.com/sherokitchen/manager/internal/storage/postgres"
	"github.com/sherokitchen/manager/internal/storage/sqlite"
)

// SettingDatabaseURL is the local settings key under which a user-supplied
// remote connection string is persisted.
const SettingDatabaseURL = "database_url"

// Resolve picks the store of record. The remote connection string comes
// from deployment configuration first, then from settings the user saved
// locally. A missing DSN or a failed connection silently selects the local
// store: degrading to offline is policy, not an error.
func Resolve(ctx context.Context, envDSN string, local *sqlite.Store) storage.Store {
	dsn := envDSN
	if dsn == "" {
		stored, err := local.Setting(ctx, SettingDatabaseURL)
		if err != nil {
			slog.Warn("Failed to read stored connection settings", "error", err)
		} else {
			dsn = stored
		}
	}

	if dsn == "" {
		slog.Info("No remote store configured, using local store")
		return local
	}

	remote, err := postgres.New(ctx, dsn)
	if err != nil {
		slog.Warn("Remote store unavailable, degrading to local store", "error", err)
		return local
	}
	slog.Info("Remote store active")
	return remote
}

// Pinger is anything that can be probed with a minimal read.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// TestConnection probes the active store with a minimal read and reports a
// human-readable outcome. It never mutates data.
func TestConnection(ctx context.Context, s Pinger) (bool, string) {
	if err := s.Ping(ctx); err != nil {
		return false, err.Error()
	}
	return true, "Connection successful"
}
