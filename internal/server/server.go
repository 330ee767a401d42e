// Package server exposes the manager over a JSON HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sherokitchen/manager/internal/insights"
	"github.com/sherokitchen/manager/internal/metrics"
	"github.com/sherokitchen/manager/internal/service"
	"github.com/sherokitchen/manager/internal/storage/sqlite"
)

// Server wires the ledger and its supporting services into HTTP handlers.
type Server struct {
	ledger *service.Ledger

	// settings always lives in the local database, even when the ledger
	// is remote-backed, so a saved connection string survives offline runs.
	settings *sqlite.Store

	// consultant is nil when no Gemini credentials are configured.
	consultant *insights.Consultant
}

func New(ledger *service.Ledger, settings *sqlite.Store, consultant *insights.Consultant) *Server {
	return &Server{ledger: ledger, settings: settings, consultant: consultant}
}

// Handler builds the route table and wraps it in logging and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/menu", s.listMenu)
	mux.HandleFunc("POST /api/menu", s.saveMenuItem)
	mux.HandleFunc("DELETE /api/menu/{id}", s.deleteMenuItem)
	mux.HandleFunc("POST /api/menu/import", s.importMenu)
	mux.HandleFunc("GET /api/categories", s.listCategories)

	mux.HandleFunc("GET /api/sales", s.listSales)
	mux.HandleFunc("POST /api/sales", s.recordSale)
	mux.HandleFunc("DELETE /api/sales/{id}", s.deleteSale)

	mux.HandleFunc("GET /api/expenses", s.listExpenses)
	mux.HandleFunc("POST /api/expenses", s.saveExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.deleteExpense)

	mux.HandleFunc("GET /api/receivables", s.receivables)
	mux.HandleFunc("GET /api/expenses/summary", s.expenseSummary)
	mux.HandleFunc("GET /api/dashboard", s.dashboard)
	mux.HandleFunc("POST /api/cost", s.cost)
	mux.HandleFunc("GET /api/insights", s.insights)

	mux.HandleFunc("GET /api/export/sales.csv", s.exportSales)
	mux.HandleFunc("GET /api/export/expenses.csv", s.exportExpenses)

	mux.HandleFunc("GET /api/settings", s.getSettings)
	mux.HandleFunc("PUT /api/settings", s.putSettings)
	mux.HandleFunc("POST /api/settings/test", s.testConnection)

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, fmt.Sprintf("%dxx", rec.status/100)).Inc()
		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
