// Package export writes sales and expense reports as CSV and reads
// spreadsheet-style menu files back in.
//
// Exports preserve in-memory record order and quote fields per RFC 4180, so
// free-text notes with commas or newlines survive a round trip.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sherokitchen/manager/internal/models"
)

var salesHeader = []string{
	"Date", "Item Name", "Category", "Qty",
	"Unit Price", "My Share/Unit", "Shero Share/Unit",
	"Total Amount", "Total My Share", "Total Shero Share", "Notes",
}

var expensesHeader = []string{"Date", "Category", "Amount", "Notes"}

// WriteSalesCSV writes one row per sale, in the given order.
func WriteSalesCSV(w io.Writer, sales []models.SaleEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range sales {
		row := []string{
			s.Date, s.ItemName, s.Category, strconv.Itoa(s.Quantity),
			num(s.UnitPrice), num(s.UnitMyShare), num(s.UnitSheroShare),
			num(s.TotalAmount), num(s.TotalMyShare), num(s.TotalSheroShare),
			s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write sale %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExpensesCSV writes one row per expense, in the given order.
func WriteExpensesCSV(w io.Writer, expenses []models.ExpenseEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expensesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write([]string{e.Date, e.Category, num(e.Amount), e.Notes}); err != nil {
			return fmt.Errorf("failed to write expense %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Column aliases accepted by ReadMenuCSV, matched case-insensitively.
var (
	nameAliases  = []string{"name", "dish name"}
	priceAliases = []string{"price", "amount"}
)

// ReadMenuCSV parses a menu spreadsheet into new catalog items. Rows missing
// a name or a positive price are skipped silently. A missing My Share column
// defaults the owner's share to the full price; a missing Shero Share falls
// back to price minus the parsed share value.
func ReadMenuCSV(r io.Reader) ([]models.MenuItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := indexColumns(header)

	var items []models.MenuItem
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		name := cols.get(row, nameAliases...)
		price := parseNumber(cols.get(row, priceAliases...))
		if name == "" || price <= 0 {
			continue
		}
		myShare := parseNumber(cols.get(row, "my share"))
		sheroShare := parseNumber(cols.get(row, "shero share"))
		if sheroShare == 0 {
			sheroShare = price - myShare
		}
		if myShare == 0 {
			myShare = price
		}
		category := cols.get(row, "category")
		if category == "" {
			category = models.DefaultCategory
		}
		items = append(items, models.MenuItem{
			ID:         uuid.New().String(),
			Name:       name,
			Category:   category,
			Price:      price,
			MyShare:    myShare,
			SheroShare: sheroShare,
		})
	}
	return items, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// get returns the first non-empty cell among the aliased columns.
func (c columnIndex) get(row []string, aliases ...string) string {
	for _, alias := range aliases {
		i, ok := c[alias]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
