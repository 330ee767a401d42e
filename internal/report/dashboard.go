package report

import (
	"sort"

	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/models"
)

// TopItem is one entry of the best-sellers list.
type TopItem struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Earnings float64 `json:"earnings"`
}

// BusinessSummary is the whole-history overview shown on the dashboard and
// fed to the insights consultant.
type BusinessSummary struct {
	Period          string    `json:"period"`
	TotalOrders     int       `json:"totalOrders"`
	TotalSalesValue float64   `json:"totalSalesValue"`
	TotalMyShare    float64   `json:"totalMyShare"`
	TotalSheroShare float64   `json:"totalSheroShare"`
	TotalExpenses   float64   `json:"totalExpenses"`
	NetProfit       float64   `json:"netProfit"`
	TopItems        []TopItem `json:"topItems"`
}

// Summarize computes the dashboard totals. Net profit is the owner's share
// minus expenses; the partner share is never the owner's revenue.
func Summarize(sales []models.SaleEntry, expenses []models.ExpenseEntry) BusinessSummary {
	s := BusinessSummary{Period: "all-time"}
	for _, sale := range sales {
		s.TotalOrders += sale.Quantity
		s.TotalSalesValue += sale.TotalAmount
		s.TotalMyShare += sale.TotalMyShare
		s.TotalSheroShare += sale.TotalSheroShare
	}
	for _, e := range expenses {
		s.TotalExpenses += e.Amount
	}
	s.NetProfit = s.TotalMyShare - s.TotalExpenses
	s.TopItems = TopItems(sales, 5)
	return s
}

// TopItems returns the n best-selling items by quantity, with the owner
// earnings they brought in. Ties break on name for a stable order.
func TopItems(sales []models.SaleEntry, n int) []TopItem {
	type agg struct {
		count    int
		earnings float64
	}
	byName := make(map[string]*agg)
	for _, s := range sales {
		a, ok := byName[s.ItemName]
		if !ok {
			a = &agg{}
			byName[s.ItemName] = a
		}
		a.count += s.Quantity
		a.earnings += s.TotalMyShare
	}

	items := make([]TopItem, 0, len(byName))
	for name, a := range byName {
		items = append(items, TopItem{Name: name, Count: a.count, Earnings: a.earnings})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// DayPoint is one day of the dashboard chart.
type DayPoint struct {
	Date       date.Date `json:"date"`
	Label      string    `json:"label"`
	MyShare    float64   `json:"myShare"`
	SheroShare float64   `json:"sheroShare"`
	Expense    float64   `json:"expense"`
}

// WeekSeries returns the last seven days ending at today, oldest first, with
// per-day share and expense sums. Days with no records are present with
// zeros so the chart has a fixed width.
func WeekSeries(sales []models.SaleEntry, expenses []models.ExpenseEntry, today date.Date) []DayPoint {
	points := make([]DayPoint, 7)
	index := make(map[string]*DayPoint, 7)
	for i := 0; i < 7; i++ {
		d := today.Add(i - 6)
		points[i] = DayPoint{Date: d, Label: d.WeekdayLabel()}
		index[d.String()] = &points[i]
	}
	for _, s := range sales {
		if p, ok := index[s.Date]; ok {
			p.MyShare += s.TotalMyShare
			p.SheroShare += s.TotalSheroShare
		}
	}
	for _, e := range expenses {
		if p, ok := index[e.Date]; ok {
			p.Expense += e.Amount
		}
	}
	return points
}
