// Package split implements the two-party revenue split model.
//
// A menu item's unit price is divided between the business owner ("my
// share") and the partner/collection agent ("shero share"). The split is
// computed exactly once, when a sale is created or edited, and persisted on
// the sale as an immutable snapshot. Later changes to the menu item never
// rewrite past sales.
package split

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sherokitchen/manager/internal/date"
	"github.com/sherokitchen/manager/internal/models"
)

// PartnerShare returns the partner's unit share. When supplied is present
// and numeric it wins; otherwise the share is derived as price - myShare.
func PartnerShare(price, myShare float64, supplied *float64) float64 {
	if supplied != nil && !math.IsNaN(*supplied) && !math.IsInf(*supplied, 0) {
		return *supplied
	}
	return decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(myShare)).InexactFloat64()
}

// Totals scales the three unit values by quantity using decimal arithmetic.
// Whenever the partner share equals price - myShare (the derived case), its
// total is taken as amount - myShare over the stored float64 values, so the
// persisted triple satisfies totalMyShare + totalSheroShare == totalAmount.
// An independently overridden partner share is scaled on its own and makes
// no sum guarantee.
func Totals(unitPrice, unitMyShare, unitSheroShare float64, quantity int) (amount, myShare, sheroShare float64) {
	qty := decimal.NewFromInt(int64(quantity))
	price := decimal.NewFromFloat(unitPrice)
	my := decimal.NewFromFloat(unitMyShare)
	shero := decimal.NewFromFloat(unitSheroShare)

	amount = price.Mul(qty).InexactFloat64()
	myShare = my.Mul(qty).InexactFloat64()
	if price.Sub(my).Equal(shero) {
		sheroShare = amount - myShare
	} else {
		sheroShare = shero.Mul(qty).InexactFloat64()
	}
	return amount, myShare, sheroShare
}

// NewSale snapshots the given menu item onto a sale record. The caller
// chooses the ID: a fresh UUID for a new sale, or the existing ID when
// editing, in which case the snapshot is re-taken from whatever item is
// currently selected.
func NewSale(id string, day date.Date, item models.MenuItem, quantity int, notes string) models.SaleEntry {
	if quantity < 1 {
		quantity = 1
	}
	amount, myShare, sheroShare := Totals(item.Price, item.MyShare, item.SheroShare, quantity)
	return models.SaleEntry{
		ID:              id,
		Date:            day.String(),
		MenuItemID:      item.ID,
		ItemName:        item.Name,
		Category:        item.Category,
		Quantity:        quantity,
		UnitPrice:       item.Price,
		UnitMyShare:     item.MyShare,
		UnitSheroShare:  item.SheroShare,
		TotalAmount:     amount,
		TotalMyShare:    myShare,
		TotalSheroShare: sheroShare,
		Notes:           notes,
	}
}
