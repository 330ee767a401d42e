// Package costing implements the unit-conversion and prorated-cost engine
// behind the cost calculator.
//
// All three cost modes reduce to "price per indivisible unit times units
// consumed": ingredients convert heterogeneous kitchen measures to a common
// base (grams or milliliters) first, packaging divides by a piece count, and
// utilities divide by a lifetime in days.
package costing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a recognized measurement unit.
type Unit string

const (
	Kilogram   Unit = "kg"
	Gram       Unit = "g"
	Liter      Unit = "l"
	Milliliter Unit = "ml"
	Tablespoon Unit = "tbsp"
	Teaspoon   Unit = "tsp"
	Cup        Unit = "cup"
	Piece      Unit = "pcs"
)

// multipliers maps each unit to its base-unit factor (grams or milliliters;
// count units map to 1). The spoon and cup factors are fixed kitchen
// approximations, configuration constants rather than physics.
var multipliers = map[Unit]float64{
	Kilogram:   1000,
	Gram:       1,
	Liter:      1000,
	Milliliter: 1,
	Tablespoon: 15,
	Teaspoon:   5,
	Cup:        240,
	Piece:      1,
}

// ParseUnit normalizes a unit name. Unknown units are an error.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := multipliers[u]; !ok {
		return "", fmt.Errorf("unknown unit %q", s)
	}
	return u, nil
}

// ToBase converts a quantity in the given unit to base units (grams or
// milliliters).
func ToBase(qty float64, u Unit) float64 {
	return qty * multipliers[u]
}

// ParseMode controls how textual amounts are interpreted.
type ParseMode int

const (
	// Lenient treats empty or non-numeric input as zero, matching the
	// calculator's scratch-pad behavior.
	Lenient ParseMode = iota
	// Strict rejects anything that does not parse as a number.
	Strict
)

// ParseAmount parses a textual amount under the given mode. In Lenient mode
// the error is always nil and bad input resolves to 0.
func ParseAmount(s string, mode ParseMode) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		if mode == Strict {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return 0, nil
	}
	return v, nil
}

// prorate is the shared core: the cost of usedBase units out of a purchase
// of purchasedBase units at the given price. A zero purchased quantity
// yields zero cost rather than an error.
func prorate(price, purchasedBase, usedBase float64) float64 {
	if purchasedBase == 0 {
		return 0
	}
	return decimal.NewFromFloat(price).
		Div(decimal.NewFromFloat(purchasedBase)).
		Mul(decimal.NewFromFloat(usedBase)).
		InexactFloat64()
}

// IngredientCost prorates a market purchase over the quantity actually used
// in a recipe, converting both sides to base units first. Example: bought at
// 100 per 1 kg, used 2 tbsp: (100/1000g) * 30g = 3.00.
func IngredientCost(price, purchasedQty float64, purchasedUnit Unit, usedQty float64, usedUnit Unit) float64 {
	return prorate(price, ToBase(purchasedQty, purchasedUnit), ToBase(usedQty, usedUnit))
}

// PackagingCost prorates a bulk pack over the pieces used. No unit
// conversion; pieces are already indivisible.
func PackagingCost(price, packCount, usedCount float64) float64 {
	return prorate(price, packCount, usedCount)
}

// UtilityCost prorates a recurring bill (gas cylinder, electricity) over the
// days it lasts.
func UtilityCost(price, lifeDays, usedDays float64) float64 {
	return prorate(price, lifeDays, usedDays)
}
