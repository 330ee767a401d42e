package models

// SaleEntry represents one order of a menu item on a calendar day.
//
// Everything from ItemName through TotalSheroShare is a snapshot taken when
// the sale was created or last edited. Editing a sale re-snapshots from
// whichever menu item is selected at edit time; it never touches any other
// sale.
type SaleEntry struct {
	// ID is the unique identifier for the sale (UUID format).
	ID string `json:"id"`

	// Date is the calendar day of the sale in YYYY-MM-DD form.
	Date string `json:"date"`

	// MenuItemID references the originating menu item by identifier only.
	// The referenced item may have been edited or deleted since.
	MenuItemID string `json:"menuItemId"`

	// ItemName and Category are snapshots for history.
	ItemName string `json:"itemName"`
	Category string `json:"category"`

	// Quantity is the number of units sold.
	Quantity int `json:"quantity"`

	// Unit snapshots of the item's pricing at the moment of sale.
	UnitPrice      float64 `json:"unitPrice"`
	UnitMyShare    float64 `json:"unitMyShare"`
	UnitSheroShare float64 `json:"unitSheroShare"`

	// Quantity-scaled totals, immutable once computed.
	TotalAmount     float64 `json:"totalAmount"`
	TotalMyShare    float64 `json:"totalMyShare"`
	TotalSheroShare float64 `json:"totalSheroShare"`

	Notes string `json:"notes,omitempty"`
}
