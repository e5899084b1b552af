// Package store implements the durable local copy of the user's shopping
// lists. It is the single owner of list and item rows; the sync engine and
// the application edit surface both read and write through the
// [ShoppingListRepository] interface.
package store

import (
	"context"

	"github.com/nordvik/shopsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ShoppingListRepository is the low-level local store for shopping lists and
// their items. All multi-row writes are atomic: a failed call never leaves a
// partially applied change behind.
type ShoppingListRepository interface {
	// InsertOrReplaceList writes list keyed by its identifier. An existing
	// row with the same identifier is overwritten in place.
	InsertOrReplaceList(ctx context.Context, list models.ShoppingList) error

	// GetList returns the list with the given identifier, regardless of its
	// sync state. Returns [ErrListNotFound] if no such row exists.
	GetList(ctx context.Context, listID string) (models.ShoppingList, error)

	// GetAllListsWithSyncStates returns every list owned by ownerID whose
	// sync state is one of states, ordered by modification time descending.
	GetAllListsWithSyncStates(ctx context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingList, error)

	// DeleteList removes the list row and all of its item rows in a single
	// transaction.
	DeleteList(ctx context.Context, listID string) error

	// InsertOrReplaceItem writes item keyed by its identifier, overwriting
	// in place on conflict.
	InsertOrReplaceItem(ctx context.Context, item models.ShoppingListItem) error

	// GetItem returns the item with the given identifier. Returns
	// [ErrItemNotFound] if no such row exists.
	GetItem(ctx context.Context, itemID string) (models.ShoppingListItem, error)

	// GetItemsForList returns the items of a list whose sync state is one of
	// states, ordered by their order index.
	GetItemsForList(ctx context.Context, listID string, states []models.SyncState) ([]models.ShoppingListItem, error)

	// GetAllItemsWithSyncStates returns every item (across all lists owned
	// by ownerID) whose sync state is one of states.
	GetAllItemsWithSyncStates(ctx context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingListItem, error)

	// DeleteItem removes a single item row.
	DeleteItem(ctx context.Context, itemID string) error
}
