package store

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrListNotFound is returned when a query targets a shopping list
	// identifier that has no row in the local store.
	ErrListNotFound = errors.New("shopping list not found")

	// ErrItemNotFound is returned when a query targets a shopping list item
	// identifier that has no row in the local store.
	ErrItemNotFound = errors.New("shopping list item not found")
)
