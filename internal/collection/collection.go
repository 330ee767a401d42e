// Package collection implements the ordered upsert/delete semantics shared by
// the in-memory synchronizer and the local snapshot store. Keeping both sides
// on the same helpers is what guarantees memory and durable state agree on
// record order.
package collection

// Position selects where a brand-new record is inserted.
type Position int

const (
	// Append puts new records at the end, preserving existing order
	// (menu items, expenses).
	Append Position = iota
	// Prepend puts new records first, most-recent-first (sales).
	Prepend
)

// Upsert replaces the record whose identifier matches rec in place, keeping
// its position. When no record matches, rec is inserted at pos. The returned
// bool reports whether an existing record was replaced.
func Upsert[T any](items []T, rec T, id func(T) string, pos Position) ([]T, bool) {
	key := id(rec)
	for i := range items {
		if id(items[i]) == key {
			out := make([]T, len(items))
			copy(out, items)
			out[i] = rec
			return out, true
		}
	}
	if pos == Prepend {
		out := make([]T, 0, len(items)+1)
		out = append(out, rec)
		return append(out, items...), false
	}
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, rec), false
}

// Delete removes the record with the given identifier. Deleting a nonexistent
// identifier is a no-op; the bool reports whether anything was removed.
func Delete[T any](items []T, key string, id func(T) string) ([]T, bool) {
	for i := range items {
		if id(items[i]) == key {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

// Find returns the record with the given identifier, if present.
func Find[T any](items []T, key string, id func(T) string) (T, bool) {
	for i := range items {
		if id(items[i]) == key {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}
