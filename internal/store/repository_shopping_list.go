package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/models"
)

// psql builds state-filtered queries with $N placeholders to match the raw
// query constants in sql_queries.go.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type shoppingListRepository struct {
	*DB
	logger *logger.Logger
}

// NewShoppingListRepository constructs the SQLite-backed
// [ShoppingListRepository].
func NewShoppingListRepository(db *DB, logger *logger.Logger) ShoppingListRepository {
	return &shoppingListRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *shoppingListRepository) InsertOrReplaceList(ctx context.Context, list models.ShoppingList) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, insertOrReplaceList,
		list.ID,
		list.Name,
		list.OwnerID,
		list.Access,
		list.State,
		list.Modified,
	)
	if err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.InsertOrReplaceList").
			Str("list_id", list.ID).
			Msg("failed to execute upsert for shopping list")
		return fmt.Errorf("failed to save shopping list (id=%s): %w", list.ID, err)
	}

	return nil
}

func (r *shoppingListRepository) GetList(ctx context.Context, listID string) (models.ShoppingList, error) {
	log := logger.FromContext(ctx)

	var list models.ShoppingList
	row := r.DB.QueryRowContext(ctx, getSingleList, listID)
	err := row.Scan(
		&list.ID,
		&list.Name,
		&list.OwnerID,
		&list.Access,
		&list.State,
		&list.Modified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShoppingList{}, ErrListNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.GetList").
			Str("list_id", listID).
			Msg("failed to scan shopping list row")
		return models.ShoppingList{}, fmt.Errorf("failed to scan shopping list row: %w", err)
	}

	return list, nil
}

func (r *shoppingListRepository) GetAllListsWithSyncStates(ctx context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingList, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "name", "owner_id", "access", "state", "modified").
		From("shopping_lists").
		Where(sq.Eq{"owner_id": ownerID, "state": states}).
		OrderBy("modified DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.GetAllListsWithSyncStates").
			Str("owner_id", ownerID).
			Msg("failed to execute query for getting lists by sync state")
		return nil, fmt.Errorf("failed to query shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []models.ShoppingList
	for rows.Next() {
		var list models.ShoppingList
		if err = rows.Scan(
			&list.ID,
			&list.Name,
			&list.OwnerID,
			&list.Access,
			&list.State,
			&list.Modified,
		); err != nil {
			log.Err(err).
				Str("func", "shoppingListRepository.GetAllListsWithSyncStates").
				Str("owner_id", ownerID).
				Msg("failed to scan shopping list row")
			return nil, fmt.Errorf("failed to scan shopping list row: %w", err)
		}
		lists = append(lists, list)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping list rows: %w", err)
	}

	return lists, nil
}

// DeleteList removes the list row and its items in one transaction so a
// failure mid-way is never observable.
func (r *shoppingListRepository) DeleteList(ctx context.Context, listID string) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteListItems, listID); err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.DeleteList").
			Str("list_id", listID).
			Msg("failed to delete shopping list items")
		return fmt.Errorf("failed to delete items of shopping list (id=%s): %w", listID, err)
	}

	if _, err = tx.ExecContext(ctx, deleteList, listID); err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.DeleteList").
			Str("list_id", listID).
			Msg("failed to delete shopping list")
		return fmt.Errorf("failed to delete shopping list (id=%s): %w", listID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *shoppingListRepository) InsertOrReplaceItem(ctx context.Context, item models.ShoppingListItem) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, insertOrReplaceItem,
		item.ID,
		item.ListID,
		item.Description,
		item.Tick,
		item.OrderIndex,
		item.State,
		item.Modified,
	)
	if err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.InsertOrReplaceItem").
			Str("item_id", item.ID).
			Str("list_id", item.ListID).
			Msg("failed to execute upsert for shopping list item")
		return fmt.Errorf("failed to save shopping list item (id=%s): %w", item.ID, err)
	}

	return nil
}

func (r *shoppingListRepository) GetItem(ctx context.Context, itemID string) (models.ShoppingListItem, error) {
	log := logger.FromContext(ctx)

	var item models.ShoppingListItem
	row := r.DB.QueryRowContext(ctx, getSingleItem, itemID)
	err := row.Scan(
		&item.ID,
		&item.ListID,
		&item.Description,
		&item.Tick,
		&item.OrderIndex,
		&item.State,
		&item.Modified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShoppingListItem{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.GetItem").
			Str("item_id", itemID).
			Msg("failed to scan shopping list item row")
		return models.ShoppingListItem{}, fmt.Errorf("failed to scan shopping list item row: %w", err)
	}

	return item, nil
}

func (r *shoppingListRepository) GetItemsForList(ctx context.Context, listID string, states []models.SyncState) ([]models.ShoppingListItem, error) {
	query, args, err := psql.
		Select("id", "list_id", "description", "tick", "order_index", "state", "modified").
		From("shopping_list_items").
		Where(sq.Eq{"list_id": listID, "state": states}).
		OrderBy("order_index ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list item query: %w", err)
	}

	return r.queryItems(ctx, "shoppingListRepository.GetItemsForList", query, args...)
}

func (r *shoppingListRepository) GetAllItemsWithSyncStates(ctx context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingListItem, error) {
	query, args, err := psql.
		Select("i.id", "i.list_id", "i.description", "i.tick", "i.order_index", "i.state", "i.modified").
		From("shopping_list_items i").
		Join("shopping_lists l ON l.id = i.list_id").
		Where(sq.Eq{"i.state": states, "l.owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list item query: %w", err)
	}

	return r.queryItems(ctx, "shoppingListRepository.GetAllItemsWithSyncStates", query, args...)
}

func (r *shoppingListRepository) DeleteItem(ctx context.Context, itemID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteItem, itemID); err != nil {
		log.Err(err).
			Str("func", "shoppingListRepository.DeleteItem").
			Str("item_id", itemID).
			Msg("failed to delete shopping list item")
		return fmt.Errorf("failed to delete shopping list item (id=%s): %w", itemID, err)
	}

	return nil
}

func (r *shoppingListRepository) queryItems(ctx context.Context, caller, query string, args ...any) ([]models.ShoppingListItem, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("failed to execute shopping list item query")
		return nil, fmt.Errorf("failed to query shopping list items: %w", err)
	}
	defer rows.Close()

	var items []models.ShoppingListItem
	for rows.Next() {
		var item models.ShoppingListItem
		if err = rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Description,
			&item.Tick,
			&item.OrderIndex,
			&item.State,
			&item.Modified,
		); err != nil {
			log.Err(err).Str("func", caller).Msg("failed to scan shopping list item row")
			return nil, fmt.Errorf("failed to scan shopping list item row: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping list item rows: %w", err)
	}

	return items, nil
}
