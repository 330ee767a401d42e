package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sherokitchen/manager/internal/costing"
	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/export"
	"github.com/sherokitchen/manager/internal/gateway"
	"github.com/sherokitchen/manager/internal/models"
	"github.com/sherokitchen/manager/internal/report"
	"github.com/sherokitchen/manager/internal/service"
	"github.com/sherokitchen/manager/internal/split"
	"github.com/sherokitchen/manager/internal/storage/postgres"
)

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.MenuItems())
}

type menuItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	MyShare  float64 `json:"myShare"`
	// SheroShare is a pointer so an omitted field can be derived from the
	// price instead of being taken as zero.
	SheroShare *float64 `json:"sheroShare"`
}

func (s *Server) saveMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "a name and a positive price are required")
		return
	}
	if req.Category == "" {
		req.Category = models.DefaultCategory
	}
	item, err := s.ledger.SaveMenuItem(r.Context(), models.MenuItem{
		ID:         req.ID,
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		MyShare:    req.MyShare,
		SheroShare: split.PartnerShare(req.Price, req.MyShare, req.SheroShare),
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	s.delete(w, r, s.ledger.DeleteMenuItem, "menu item")
}

func (s *Server) importMenu(w http.ResponseWriter, r *http.Request) {
	items, err := export.ReadMenuCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse file: "+err.Error())
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"added":   0,
			"message": "No valid rows found; nothing was imported",
		})
		return
	}
	added, err := s.ledger.BulkAddMenuItems(r.Context(), items)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"added": added,
			"error": fmt.Sprintf("imported %d of %d items: %v", added, len(items), err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"added":   added,
		"message": fmt.Sprintf("Imported %d items", added),
	})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"menu":    models.MenuCategories,
		"expense": models.ExpenseCategories,
	})
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Sales())
}

type saleRequest struct {
	ID         string    `json:"id"`
	Date       date.Date `json:"date"`
	MenuItemID string    `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
}

func (s *Server) recordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == (date.Date{}) {
		writeError(w, http.StatusBadRequest, "a date is required")
		return
	}
	sale, err := s.ledger.RecordSale(r.Context(), req.ID, req.Date, req.MenuItemID, req.Quantity, req.Notes)
	if errors.Is(err, service.ErrMenuItemNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (s *Server) deleteSale(w http.ResponseWriter, r *http.Request) {
	s.delete(w, r, s.ledger.DeleteSale, "sale")
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Expenses())
}

func (s *Server) saveExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.ExpenseEntry
	if !decodeJSON(w, r, &expense) {
		return
	}
	if _, err := date.Parse(expense.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	if expense.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "a positive amount is required")
		return
	}
	saved, err := s.ledger.SaveExpense(r.Context(), expense)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	s.delete(w, r, s.ledger.DeleteExpense, "expense")
}

// delete shares the no-op contract: deleting an unknown id reports what
// happened instead of failing.
func (s *Server) delete(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) (bool, error), entity string) {
	id := r.PathValue("id")
	removed, err := del(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	resp := map[string]any{"removed": removed}
	if !removed {
		resp["message"] = fmt.Sprintf("No %s found with that id; nothing was deleted", entity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) receivables(w http.ResponseWriter, r *http.Request) {
	p, err := date.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p == date.Daily {
		entries := report.DailySales(s.ledger.Sales())
		if day := r.URL.Query().Get("date"); day != "" {
			d, err := date.Parse(day)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
				return
			}
			entries = filterByDate(entries, d.String(), func(e models.SaleEntry) string { return e.Date })
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"period":  p.String(),
			"entries": entries,
		})
		return
	}
	buckets, err := report.SalesBreakdown(s.ledger.Sales(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": p.String(), "buckets": buckets})
}

func (s *Server) expenseSummary(w http.ResponseWriter, r *http.Request) {
	p, err := date.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p == date.Daily {
		entries := report.DailyExpenses(s.ledger.Expenses())
		if day := r.URL.Query().Get("date"); day != "" {
			d, err := date.Parse(day)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
				return
			}
			entries = filterByDate(entries, d.String(), func(e models.ExpenseEntry) string { return e.Date })
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"period":  p.String(),
			"entries": entries,
		})
		return
	}
	buckets, err := report.ExpenseBreakdown(s.ledger.Expenses(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": p.String(), "buckets": buckets})
}

// filterByDate keeps the records falling on one canonical day.
func filterByDate[T any](records []T, day string, dateOf func(T) string) []T {
	out := records[:0:0]
	for _, rec := range records {
		if dateOf(rec) == day {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	sales := s.ledger.Sales()
	expenses := s.ledger.Expenses()
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": report.Summarize(sales, expenses),
		"week":    report.WeekSeries(sales, expenses, date.Today()),
		"mode":    string(s.ledger.Mode()),
	})
}

type costRequest struct {
	Type string `json:"type"`

	Price string `json:"price"`

	// Ingredient fields.
	PurchasedQty  string `json:"purchasedQty"`
	PurchasedUnit string `json:"purchasedUnit"`
	UsedQty       string `json:"usedQty"`
	UsedUnit      string `json:"usedUnit"`

	// Packaging fields.
	PackCount string `json:"packCount"`
	UsedCount string `json:"usedCount"`

	// Utility fields.
	LifeDays string `json:"lifeDays"`
	UsedDays string `json:"usedDays"`

	// Strict rejects non-numeric input instead of treating it as zero.
	Strict bool `json:"strict"`
}

func (s *Server) cost(w http.ResponseWriter, r *http.Request) {
	var req costRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode := costing.Lenient
	if req.Strict {
		mode = costing.Strict
	}

	parse := func(v string) (float64, bool) {
		n, err := costing.ParseAmount(v, mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return 0, false
		}
		return n, true
	}

	price, ok := parse(req.Price)
	if !ok {
		return
	}

	var result float64
	switch req.Type {
	case "ingredient":
		purchasedUnit, err := costing.ParseUnit(req.PurchasedUnit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		usedUnit, err := costing.ParseUnit(req.UsedUnit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		purchasedQty, ok := parse(req.PurchasedQty)
		if !ok {
			return
		}
		usedQty, ok := parse(req.UsedQty)
		if !ok {
			return
		}
		result = costing.IngredientCost(price, purchasedQty, purchasedUnit, usedQty, usedUnit)
	case "packaging":
		packCount, ok := parse(req.PackCount)
		if !ok {
			return
		}
		usedCount, ok := parse(req.UsedCount)
		if !ok {
			return
		}
		result = costing.PackagingCost(price, packCount, usedCount)
	case "utility":
		lifeDays, ok := parse(req.LifeDays)
		if !ok {
			return
		}
		usedDays, ok := parse(req.UsedDays)
		if !ok {
			return
		}
		result = costing.UtilityCost(price, lifeDays, usedDays)
	default:
		writeError(w, http.StatusBadRequest, "type must be ingredient, packaging, or utility")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"cost": result})
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	if s.consultant == nil {
		writeError(w, http.StatusServiceUnavailable, "AI insights are not configured; set GEMINI_API_KEY")
		return
	}
	summary := report.Summarize(s.ledger.Sales(), s.ledger.Expenses())
	text, err := s.consultant.Analyze(r.Context(), summary)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insights": text})
}

func (s *Server) exportSales(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales_report.csv"`)
	if err := export.WriteSalesCSV(w, s.ledger.Sales()); err != nil {
		slog.Error("Failed to write sales export", "error", err)
	}
}

func (s *Server) exportExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses_report.csv"`)
	if err := export.WriteExpensesCSV(w, s.ledger.Expenses()); err != nil {
		slog.Error("Failed to write expenses export", "error", err)
	}
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	dsn, err := s.settings.Setting(r.Context(), gateway.SettingDatabaseURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"databaseUrl": dsn,
		"mode":        string(s.ledger.Mode()),
	})
}

type settingsRequest struct {
	DatabaseURL string `json:"databaseUrl"`
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var err error
	if req.DatabaseURL == "" {
		err = s.settings.DeleteSetting(r.Context(), gateway.SettingDatabaseURL)
	} else {
		err = s.settings.SetSetting(r.Context(), gateway.SettingDatabaseURL, req.DatabaseURL)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Settings saved; restart the server to apply them",
	})
}

// testConnection probes a candidate connection string if one is supplied,
// otherwise the store currently in use. Read-only either way.
func (s *Server) testConnection(w http.ResponseWriter, r *http.Request) {
	// An empty body means "probe the active store".
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var ok bool
	var msg string
	if req.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		ok, msg = gateway.TestConnection(ctx, gateway.PingerFunc(func(ctx context.Context) error {
			return postgres.Probe(ctx, req.DatabaseURL)
		}))
	} else {
		ok, msg = gateway.TestConnection(r.Context(), s.ledger)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "message": msg})
}
