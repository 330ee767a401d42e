package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sherokitchen/manager/internal/config"
	"github.com/sherokitchen/manager/internal/gateway"
	"github.com/sherokitchen/manager/internal/insights"
	"github.com/sherokitchen/manager/internal/metrics"
	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/server"
	"github.com/sherokitchen/manager/internal/service"
	"github.com/sherokitchen/manager/internal/storage"
	"github.com/sherokitchen/manager/internal/storage/sqlite"
	"github.com/sherokitchen/manager/pkg/logging"
)

// seedMenu is written to an empty local-mode catalog on first run so the
// app is usable before any items are entered.
var seedMenu = []models.MenuItem{
	{ID: "1", Name: "Vazhaikkai Podimas", Category: "Side Dish", Price: 193, MyShare: 68, SheroShare: 125},
	{ID: "2", Name: "Beans Poriyal", Category: "Side Dish", Price: 202, MyShare: 72, SheroShare: 130},
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	ctx := context.Background()

	local, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}
	defer local.Close()
	slog.Info("Local storage initialized", "database", cfg.DBPath)

	store := gateway.Resolve(ctx, cfg.DatabaseURL, local)
	if store != storage.Store(local) {
		defer store.Close()
	}
	metrics.SetStoreMode(string(store.Mode()))

	ledger := service.NewLedger(store)
	if err := ledger.Load(ctx); err != nil {
		slog.Error("Failed to load collections", "error", err)
		os.Exit(1)
	}

	if store.Mode() == storage.ModeLocal && len(ledger.MenuItems()) == 0 {
		for _, item := range seedMenu {
			if _, err := ledger.SaveMenuItem(ctx, item); err != nil {
				slog.Warn("Failed to seed menu item", "name", item.Name, "error", err)
			}
		}
		slog.Info("Seeded starter menu", "items", len(seedMenu))
	}

	var consultant *insights.Consultant
	if cfg.InsightsEnabled {
		consultant, err = insights.NewConsultant(ctx)
		if err != nil {
			slog.Warn("AI insights disabled", "error", err)
		}
	}

	srv := server.New(ledger, local, consultant)

	// h2c allows HTTP/2 without TLS for local and reverse-proxied setups.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr, "mode", store.Mode())
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
