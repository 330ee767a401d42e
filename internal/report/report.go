// Package report aggregates raw sales and expenses into the time-bucketed
// summaries behind the dashboard, the receivables breakdown, and the expense
// breakdown. One generic grouping routine serves all three.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/models"
)

// Field names a numeric value to sum per bucket.
type Field[T any] struct {
	Name  string
	Value func(T) float64
}

// Bucket is one time window with its record count and summed fields.
type Bucket struct {
	// Key is the sortable bucket key (a week-start date or a YYYY-MM month).
	Key string `json:"key"`
	// Label is the human-readable form of the window.
	Label string `json:"label"`
	Count int    `json:"count"`
	// Sums holds one summed value per requested field.
	Sums map[string]float64 `json:"sums"`
}

// Bucketize groups records by the key function and sums the requested fields
// per bucket. Records mapped to an empty key are skipped. Buckets are
// returned sorted by key descending, most recent first.
func Bucketize[T any](records []T, key func(T) (key, label string), fields ...Field[T]) []Bucket {
	grouped := make(map[string]*Bucket)
	for _, r := range records {
		k, label := key(r)
		if k == "" {
			continue
		}
		b, ok := grouped[k]
		if !ok {
			b = &Bucket{Key: k, Label: label, Sums: make(map[string]float64, len(fields))}
			grouped[k] = b
		}
		b.Count++
		for _, f := range fields {
			b.Sums[f.Name] += f.Value(r)
		}
	}

	out := make([]Bucket, 0, len(grouped))
	for _, b := range grouped {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

// weekKey maps a record's date to the Monday of its week; a Sunday belongs
// to the week that started the previous Monday. Unparseable dates are
// skipped.
func weekKey(dateStr string) (string, string) {
	d, err := date.Parse(dateStr)
	if err != nil {
		return "", ""
	}
	start := d.WeekStart()
	end := start.Add(6)
	return start.String(), fmt.Sprintf("%s - %s", start.DayLabel(), end.DayLabel())
}

// monthKey maps a record's date to its YYYY-MM prefix.
func monthKey(dateStr string) (string, string) {
	if len(dateStr) < 7 {
		return "", ""
	}
	key := dateStr[:7]
	label := key
	if d, err := date.Parse(key + "-01"); err == nil {
		label = d.MonthLabel()
	}
	return key, label
}

func periodKey(p date.Period) (func(string) (string, string), error) {
	switch p {
	case date.Weekly:
		return weekKey, nil
	case date.Monthly:
		return monthKey, nil
	default:
		return nil, fmt.Errorf("period %s has no buckets; use the daily listing", p)
	}
}

// SalesBreakdown buckets sales weekly or monthly, summing the total amount
// and both share totals.
func SalesBreakdown(sales []models.SaleEntry, p date.Period) ([]Bucket, error) {
	key, err := periodKey(p)
	if err != nil {
		return nil, err
	}
	return Bucketize(sales,
		func(s models.SaleEntry) (string, string) { return key(s.Date) },
		Field[models.SaleEntry]{Name: "total", Value: func(s models.SaleEntry) float64 { return s.TotalAmount }},
		Field[models.SaleEntry]{Name: "myShare", Value: func(s models.SaleEntry) float64 { return s.TotalMyShare }},
		Field[models.SaleEntry]{Name: "sheroShare", Value: func(s models.SaleEntry) float64 { return s.TotalSheroShare }},
	), nil
}

// ExpenseBreakdown buckets expenses weekly or monthly, summing the amount.
func ExpenseBreakdown(expenses []models.ExpenseEntry, p date.Period) ([]Bucket, error) {
	key, err := periodKey(p)
	if err != nil {
		return nil, err
	}
	return Bucketize(expenses,
		func(e models.ExpenseEntry) (string, string) { return key(e.Date) },
		Field[models.ExpenseEntry]{Name: "amount", Value: func(e models.ExpenseEntry) float64 { return e.Amount }},
	), nil
}

// DailySales returns the raw sales sorted by date descending, breaking date
// ties on identifier descending so the display order is stable without
// relying on insertion order.
func DailySales(sales []models.SaleEntry) []models.SaleEntry {
	out := make([]models.SaleEntry, len(sales))
	copy(out, sales)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return strings.Compare(out[i].ID, out[j].ID) > 0
	})
	return out
}

// DailyExpenses is DailySales for expense records.
func DailyExpenses(expenses []models.ExpenseEntry) []models.ExpenseEntry {
	out := make([]models.ExpenseEntry, len(expenses))
	copy(out, expenses)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return strings.Compare(out[i].ID, out[j].ID) > 0
	})
	return out
}
