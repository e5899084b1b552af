package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/shopsync/internal/store"
	"github.com/nordvik/shopsync/models"
)

type listService struct {
	repo  store.ShoppingListRepository
	locks *entityLocks

	now func() time.Time
}

// NewListService constructs the local-first edit surface over the repository.
// locks is shared with the sync engine so application edits and merge writes
// of the same identifier never interleave.
func NewListService(repo store.ShoppingListRepository, locks *entityLocks) ListService {
	return &listService{
		repo:  repo,
		locks: locks,
		now:   time.Now,
	}
}

func (s *listService) CreateList(ctx context.Context, userID, name string) (models.ShoppingList, error) {
	if strings.TrimSpace(userID) == "" {
		return models.ShoppingList{}, ErrNoOwner
	}
	if strings.TrimSpace(name) == "" {
		return models.ShoppingList{}, ErrEmptyListName
	}

	list := models.ShoppingList{
		ID:       newID(),
		Name:     name,
		OwnerID:  userID,
		Access:   "private",
		State:    models.StateToSync,
		Modified: s.now().UnixMilli(),
	}

	unlock := s.locks.lock(list.ID)
	defer unlock()

	if err := s.repo.InsertOrReplaceList(ctx, list); err != nil {
		return models.ShoppingList{}, fmt.Errorf("create shopping list: %w", err)
	}

	return list, nil
}

func (s *listService) UpdateList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error) {
	if strings.TrimSpace(list.Name) == "" {
		return models.ShoppingList{}, ErrEmptyListName
	}

	unlock := s.locks.lock(list.ID)
	defer unlock()

	current, err := s.repo.GetList(ctx, list.ID)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("update shopping list: %w", err)
	}

	// A second offline edit of the same list overwrites the pending one in
	// place; there is no intermediate conflict detection between two local
	// edits.
	list.OwnerID = current.OwnerID
	list.State = models.StateToSync
	list.Modified = s.nextModified(current.Modified)

	if err = s.repo.InsertOrReplaceList(ctx, list); err != nil {
		return models.ShoppingList{}, fmt.Errorf("update shopping list: %w", err)
	}

	return list, nil
}

func (s *listService) DeleteList(ctx context.Context, listID string) error {
	unlock := s.locks.lock(listID)
	defer unlock()

	current, err := s.repo.GetList(ctx, listID)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}

	// Tombstone: the row is retained until the server acknowledges the
	// deletion in a sync round, so a pull cannot resurrect the list.
	current.State = models.StateDeleted
	current.Modified = s.nextModified(current.Modified)

	if err = s.repo.InsertOrReplaceList(ctx, current); err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}

	return nil
}

func (s *listService) GetLists(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNoOwner
	}

	lists, err := s.repo.GetAllListsWithSyncStates(ctx, liveStates(), userID)
	if err != nil {
		return nil, fmt.Errorf("get shopping lists: %w", err)
	}

	return lists, nil
}

func (s *listService) CreateItem(ctx context.Context, listID, description string) (models.ShoppingListItem, error) {
	if strings.TrimSpace(description) == "" {
		return models.ShoppingListItem{}, ErrEmptyDescription
	}

	// The parent must exist and not be pending deletion.
	list, err := s.repo.GetList(ctx, listID)
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("create shopping list item: %w", err)
	}
	if list.State == models.StateDeleted {
		return models.ShoppingListItem{}, fmt.Errorf("create shopping list item: %w", store.ErrListNotFound)
	}

	siblings, err := s.repo.GetItemsForList(ctx, listID, liveStates())
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("create shopping list item: %w", err)
	}

	var maxOrder int64
	for _, sibling := range siblings {
		if sibling.OrderIndex > maxOrder {
			maxOrder = sibling.OrderIndex
		}
	}

	item := models.ShoppingListItem{
		ID:          newID(),
		ListID:      listID,
		Description: description,
		OrderIndex:  maxOrder + 1,
		State:       models.StateToSync,
		Modified:    s.now().UnixMilli(),
	}

	unlock := s.locks.lock(item.ID)
	defer unlock()

	if err = s.repo.InsertOrReplaceItem(ctx, item); err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("create shopping list item: %w", err)
	}

	return item, nil
}

func (s *listService) UpdateItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	unlock := s.locks.lock(item.ID)
	defer unlock()

	current, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("update shopping list item: %w", err)
	}

	item.ListID = current.ListID
	item.State = models.StateToSync
	item.Modified = s.nextModified(current.Modified)

	if err = s.repo.InsertOrReplaceItem(ctx, item); err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("update shopping list item: %w", err)
	}

	return item, nil
}

func (s *listService) DeleteItem(ctx context.Context, itemID string) error {
	unlock := s.locks.lock(itemID)
	defer unlock()

	current, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete shopping list item: %w", err)
	}

	current.State = models.StateDeleted
	current.Modified = s.nextModified(current.Modified)

	if err = s.repo.InsertOrReplaceItem(ctx, current); err != nil {
		return fmt.Errorf("delete shopping list item: %w", err)
	}

	return nil
}

func (s *listService) GetItems(ctx context.Context, listID string) ([]models.ShoppingListItem, error) {
	items, err := s.repo.GetItemsForList(ctx, listID, liveStates())
	if err != nil {
		return nil, fmt.Errorf("get shopping list items: %w", err)
	}

	return items, nil
}

// nextModified produces a strictly increasing modification timestamp even
// when the wall clock has not advanced past the previous value.
func (s *listService) nextModified(prev int64) int64 {
	now := s.now().UnixMilli()
	if now <= prev {
		return prev + 1
	}
	return now
}

// liveStates are the sync states visible to the application; tombstoned
// entities are excluded from UI-facing queries.
func liveStates() []models.SyncState {
	return []models.SyncState{models.StateSynced, models.StateToSync}
}

func newID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
