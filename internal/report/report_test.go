package report

import (
	"math"
	"testing"

	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/models"
)

func sale(id, day string, amount, my, shero float64, qty int) models.SaleEntry {
	return models.SaleEntry{
		ID: id, Date: day, Quantity: qty, ItemName: "Item " + id,
		TotalAmount: amount, TotalMyShare: my, TotalSheroShare: shero,
	}
}

func TestMonthlySalesBreakdown(t *testing.T) {
	sales := []models.SaleEntry{
		sale("a", "2024-01-15", 100, 60, 40, 1),
		sale("b", "2024-01-31", 50, 30, 20, 1),
		sale("c", "2024-02-01", 200, 120, 80, 2),
	}

	buckets, err := SalesBreakdown(sales, date.Monthly)
	if err != nil {
		t.Fatalf("SalesBreakdown: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}

	// Most recent first.
	if buckets[0].Key != "2024-02" || buckets[1].Key != "2024-01" {
		t.Errorf("bucket order = %s, %s", buckets[0].Key, buckets[1].Key)
	}
	jan := buckets[1]
	if jan.Count != 2 {
		t.Errorf("january count = %d, want 2", jan.Count)
	}
	if jan.Sums["total"] != 150 || jan.Sums["myShare"] != 90 || jan.Sums["sheroShare"] != 60 {
		t.Errorf("january sums = %v", jan.Sums)
	}
	if jan.Label != "January 2024" {
		t.Errorf("january label = %q", jan.Label)
	}
}

func TestWeeklySalesBreakdown(t *testing.T) {
	// 2024-01-15 is a Monday; 2024-01-21 is the Sunday of the same week;
	// 2024-01-22 starts the next week.
	sales := []models.SaleEntry{
		sale("a", "2024-01-15", 100, 60, 40, 1),
		sale("b", "2024-01-21", 50, 30, 20, 1),
		sale("c", "2024-01-22", 10, 6, 4, 1),
	}

	buckets, err := SalesBreakdown(sales, date.Weekly)
	if err != nil {
		t.Fatalf("SalesBreakdown: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(buckets), buckets)
	}
	if buckets[0].Key != "2024-01-22" {
		t.Errorf("first bucket = %s, want 2024-01-22", buckets[0].Key)
	}
	prev := buckets[1]
	if prev.Key != "2024-01-15" || prev.Count != 2 {
		t.Errorf("sunday sale not grouped with the previous monday: %+v", prev)
	}
	if prev.Sums["total"] != 150 {
		t.Errorf("week total = %v, want 150", prev.Sums["total"])
	}
	if prev.Label != "Jan 15 - Jan 21" {
		t.Errorf("week label = %q", prev.Label)
	}
}

func TestBucketizeSkipsUnparseableDates(t *testing.T) {
	sales := []models.SaleEntry{
		sale("a", "2024-01-15", 100, 60, 40, 1),
		sale("b", "garbage", 999, 999, 999, 1),
	}
	buckets, err := SalesBreakdown(sales, date.Weekly)
	if err != nil {
		t.Fatalf("SalesBreakdown: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Count != 1 {
		t.Errorf("expected the bad-date record to be skipped: %+v", buckets)
	}
}

func TestDailySalesOrder(t *testing.T) {
	sales := []models.SaleEntry{
		sale("aaa", "2024-01-10", 1, 1, 0, 1),
		sale("zzz", "2024-01-12", 1, 1, 0, 1),
		sale("mmm", "2024-01-12", 1, 1, 0, 1),
	}
	got := DailySales(sales)
	wantIDs := []string{"zzz", "mmm", "aaa"}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Fatalf("order = [%s %s %s], want %v", got[0].ID, got[1].ID, got[2].ID, wantIDs)
		}
	}
	// Input must stay untouched.
	if sales[0].ID != "aaa" {
		t.Error("input slice was reordered")
	}
}

func TestExpenseBreakdown(t *testing.T) {
	expenses := []models.ExpenseEntry{
		{ID: "1", Date: "2024-01-03", Category: "Ingredients", Amount: 250},
		{ID: "2", Date: "2024-01-20", Category: "Gas/Fuel", Amount: 1100},
		{ID: "3", Date: "2024-02-02", Category: "Packaging", Amount: 80},
	}
	buckets, err := ExpenseBreakdown(expenses, date.Monthly)
	if err != nil {
		t.Fatalf("ExpenseBreakdown: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[1].Sums["amount"] != 1350 {
		t.Errorf("january amount = %v, want 1350", buckets[1].Sums["amount"])
	}
}

func TestDailyBreakdownRejected(t *testing.T) {
	if _, err := SalesBreakdown(nil, date.Daily); err == nil {
		t.Error("daily period should not produce buckets")
	}
}

func TestSummarize(t *testing.T) {
	sales := []models.SaleEntry{
		sale("a", "2024-01-15", 600, 360, 240, 3),
		sale("b", "2024-01-16", 200, 120, 80, 1),
	}
	expenses := []models.ExpenseEntry{
		{ID: "e1", Date: "2024-01-15", Amount: 100},
	}

	s := Summarize(sales, expenses)
	if s.TotalOrders != 4 {
		t.Errorf("orders = %d, want 4", s.TotalOrders)
	}
	if s.TotalSalesValue != 800 || s.TotalMyShare != 480 || s.TotalSheroShare != 320 {
		t.Errorf("totals = %v/%v/%v", s.TotalSalesValue, s.TotalMyShare, s.TotalSheroShare)
	}
	if math.Abs(s.NetProfit-380) > 0.001 {
		t.Errorf("net profit = %v, want 380 (myShare - expenses)", s.NetProfit)
	}
}

func TestTopItems(t *testing.T) {
	sales := []models.SaleEntry{
		{ID: "1", ItemName: "Poriyal", Quantity: 2, TotalMyShare: 140},
		{ID: "2", ItemName: "Podimas", Quantity: 5, TotalMyShare: 340},
		{ID: "3", ItemName: "Poriyal", Quantity: 1, TotalMyShare: 70},
	}
	top := TopItems(sales, 5)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Name != "Podimas" || top[0].Count != 5 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Name != "Poriyal" || top[1].Count != 3 || top[1].Earnings != 210 {
		t.Errorf("top[1] = %+v", top[1])
	}
}

func TestWeekSeries(t *testing.T) {
	today := date.MustParse("2024-01-20")
	sales := []models.SaleEntry{
		sale("a", "2024-01-20", 100, 60, 40, 1),
		sale("b", "2024-01-13", 100, 60, 40, 1), // one day before the window
	}
	expenses := []models.ExpenseEntry{
		{ID: "e", Date: "2024-01-18", Amount: 30},
	}

	points := WeekSeries(sales, expenses, today)
	if len(points) != 7 {
		t.Fatalf("len = %d, want 7", len(points))
	}
	if points[0].Date.String() != "2024-01-14" || points[6].Date.String() != "2024-01-20" {
		t.Errorf("window = %s .. %s", points[0].Date, points[6].Date)
	}
	if points[6].MyShare != 60 || points[6].SheroShare != 40 {
		t.Errorf("today's point = %+v", points[6])
	}
	if points[4].Expense != 30 {
		t.Errorf("expense day point = %+v", points[4])
	}
	if points[0].MyShare != 0 {
		t.Error("sale outside the window leaked into the series")
	}
}
