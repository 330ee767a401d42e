// Package models defines the core domain models for SheroKitchen Manager.
//
// # Models
//
//   - MenuItem: A dish on the catalog with its price and the two-party
//     revenue split per unit sold
//   - SaleEntry: One day's order of a menu item, carrying an immutable
//     snapshot of the item's pricing at the moment of sale
//   - ExpenseEntry: A dated business expense
//
// # Design Principles
//
//  1. **Snapshot on write**: A SaleEntry copies the menu item's name,
//     category, unit price and unit shares when it is created or edited.
//     Later catalog changes never rewrite past sales, so historical reports
//     always reflect what was actually charged.
//  2. **Identifier links only**: A sale references its menu item by ID
//     string, never by pointer. Deleting a menu item leaves the sales that
//     mention it fully intact.
//  3. **One naming convention**: JSON tags use the internal camelCase names
//     (myShare, totalSheroShare, ...). Translation to the storage layer's
//     snake_case columns happens inside the postgres store and nowhere else.
package models
