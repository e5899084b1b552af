// Package service implements the SDK's domain operations: local shopping
// list edits, the push-then-pull sync engine that reconciles them with the
// catalog service, and the cache-then-network catalog reads.
package service

import (
	"context"
	"time"

	"github.com/nordvik/shopsync/models"
)

// ListService is the application-facing edit surface for shopping lists.
// Every mutation is local-first: it tags the entity ToSync (or Deleted) and
// bumps its modification timestamp; the sync engine pushes it later.
type ListService interface {
	// CreateList creates a new private list owned by userID.
	CreateList(ctx context.Context, userID, name string) (models.ShoppingList, error)

	// UpdateList overwrites the local copy of list with a fresh ToSync tag
	// and timestamp. A previous unpushed local edit of the same list is
	// overwritten in place.
	UpdateList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error)

	// DeleteList tombstones the list locally; the row disappears once the
	// server acknowledges the deletion during a sync round.
	DeleteList(ctx context.Context, listID string) error

	// GetLists returns the owner's lists excluding tombstoned ones.
	GetLists(ctx context.Context, userID string) ([]models.ShoppingList, error)

	// CreateItem appends an item to a list.
	CreateItem(ctx context.Context, listID, description string) (models.ShoppingListItem, error)

	// UpdateItem overwrites the local copy of item, tagging it ToSync.
	UpdateItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error)

	// DeleteItem tombstones a single item.
	DeleteItem(ctx context.Context, itemID string) error

	// GetItems returns a list's items excluding tombstoned ones, in order.
	GetItems(ctx context.Context, listID string) ([]models.ShoppingListItem, error)
}

// SyncEngine reconciles the local store with the server, one round per user
// at a time. A round that is already in flight for the same user is joined,
// not duplicated.
type SyncEngine interface {
	SyncRound(ctx context.Context, userID string) (SyncResult, error)
}

// CatalogService serves the read-only catalog and store endpoints with the
// cache-then-network pattern.
type CatalogService interface {
	// GetCatalogs emits at most two results: the cached catalog page first
	// when useCache is true and a cached copy exists, then the live one.
	GetCatalogs(ctx context.Context, q models.CatalogQuery, useCache bool) <-chan CatalogsResult

	// GetStores is the store-endpoint equivalent of GetCatalogs.
	GetStores(ctx context.Context, q models.CatalogQuery, useCache bool) <-chan StoresResult
}

// SyncJob periodically runs sync rounds in the background.
type SyncJob interface {
	Start(ctx context.Context, userID string, interval time.Duration)
	Stop()
}

// CatalogsResult is one event of a catalog fetch.
type CatalogsResult struct {
	Catalogs  []models.Catalog
	FromCache bool
	Err       error
}

// StoresResult is one event of a store fetch.
type StoresResult struct {
	Stores    []models.Store
	FromCache bool
	Err       error
}
