package models

// MenuItem represents a dish on the catalog.
type MenuItem struct {
	// ID is the unique, stable identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the display name of the dish (e.g., "Beans Poriyal").
	Name string `json:"name"`

	// Category is the menu group label (see MenuCategories).
	Category string `json:"category"`

	// Price is the unit sale price the customer pays.
	Price float64 `json:"price"`

	// MyShare is the unit revenue kept by the business owner.
	MyShare float64 `json:"myShare"`

	// SheroShare is the unit revenue paid to the partner/collection agent.
	// Conventionally Price - MyShare, computed once at write time. It is
	// never re-derived at read time and may drift if Price or MyShare are
	// edited without recomputation.
	SheroShare float64 `json:"sheroShare"`
}

// MenuCategories are the catalog group labels offered by the UI.
var MenuCategories = []string{
	"Main Course",
	"Side Dish",
	"Gravy/Curry",
	"Rice Special",
	"Snacks",
	"Beverage",
	"Combo",
}

// DefaultCategory is assigned to imported rows that carry no category.
const DefaultCategory = "Main Course"
