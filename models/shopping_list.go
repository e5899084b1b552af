package models

// ShoppingList is a user's named list of items. The identifier is a stable
// UUID assigned by whichever side created the list first; it is the
// uniqueness key in both the local store and on the server.
//
// Modified is a millisecond timestamp that strictly increases on every local
// mutation; the sync engine uses it to break conflicts between a local and a
// server copy of the same list.
type ShoppingList struct {
	// ID is the stable UUID of the list.
	ID string `json:"id"`

	// Name is the user-visible list name.
	Name string `json:"name"`

	// OwnerID is the user identifier of the owner.
	OwnerID string `json:"owner"`

	// Access is the sharing level reported by the server
	// ("private", "shared" or "public").
	Access string `json:"access"`

	// State is the local sync lifecycle tag. It is never sent to the server.
	State SyncState `json:"-"`

	// Modified is the last modification instant in Unix milliseconds.
	Modified int64 `json:"modified"`
}

// ShoppingListItem is a single entry of a shopping list. Sync state and
// modification timestamp are tracked independently per item, so conflict
// resolution is fine-grained: one item of a list can be pending push while
// its siblings are already synced.
type ShoppingListItem struct {
	// ID is the stable UUID of the item.
	ID string `json:"id"`

	// ListID is the identifier of the owning list.
	ListID string `json:"shopping_list_id"`

	// Description is the item text ("Milk").
	Description string `json:"description"`

	// Tick marks the item as checked off.
	Tick bool `json:"tick"`

	// OrderIndex orders items within their list, ascending.
	OrderIndex int64 `json:"order_index"`

	// State is the local sync lifecycle tag. It is never sent to the server.
	State SyncState `json:"-"`

	// Modified is the last modification instant in Unix milliseconds.
	Modified int64 `json:"modified"`
}
