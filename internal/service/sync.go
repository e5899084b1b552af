package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/store"
	"github.com/nordvik/shopsync/models"
)

// SyncFailure records one entity that could not be pushed or pulled during a
// round. The entity keeps its sync state, so the next round retries it.
type SyncFailure struct {
	// Kind is "list" or "item".
	Kind string

	// ID is the entity identifier.
	ID string

	// Op is the phase that failed: "delete", "push" or "pull".
	Op string

	Err error
}

// SyncResult is the aggregate outcome of one sync round. A round never fails
// atomically on a per-entity error; failed entities are listed here while the
// rest of the round proceeds.
type SyncResult struct {
	// PurgedLists/PurgedItems count tombstones acknowledged by the server
	// and removed from the local store.
	PurgedLists int
	PurgedItems int

	// PushedLists/PushedItems count local mutations confirmed by the server.
	PushedLists int
	PushedItems int

	// PulledLists/PulledItems count local writes applied from server state
	// during the merge phase.
	PulledLists int
	PulledItems int

	// RemovedLists/RemovedItems count local copies deleted because the
	// server no longer has them.
	RemovedLists int
	RemovedItems int

	Failures []SyncFailure
}

// Clean reports whether the round completed without per-entity failures.
func (r *SyncResult) Clean() bool {
	return len(r.Failures) == 0
}

// NoOp reports whether the round performed no local or remote writes; two
// consecutive rounds without interleaved edits must make the second one a
// no-op.
func (r *SyncResult) NoOp() bool {
	return r.PurgedLists+r.PurgedItems+
		r.PushedLists+r.PushedItems+
		r.PulledLists+r.PulledItems+
		r.RemovedLists+r.RemovedItems == 0
}

func (r *SyncResult) fail(kind, id, op string, err error) {
	r.Failures = append(r.Failures, SyncFailure{Kind: kind, ID: id, Op: op, Err: err})
}

type syncEngine struct {
	repo       store.ShoppingListRepository
	dispatcher adapter.Dispatcher
	locks      *entityLocks
	logger     *logger.Logger

	// group collapses concurrent rounds per user: a caller arriving while a
	// round for the same user is in flight receives that round's outcome.
	group singleflight.Group
}

// NewSyncEngine constructs the push-then-pull reconciliation engine. locks
// must be the same instance the [ListService] uses so merge writes and
// application edits of one identifier are serialised.
func NewSyncEngine(repo store.ShoppingListRepository, dispatcher adapter.Dispatcher, locks *entityLocks, log *logger.Logger) SyncEngine {
	return &syncEngine{
		repo:       repo,
		dispatcher: dispatcher,
		locks:      locks,
		logger:     log,
	}
}

type roundOutcome struct {
	result SyncResult
	err    error
}

// SyncRound implements [SyncEngine]. Rounds are keyed by user: concurrent
// calls for one user share a single round's outcome, rounds for different
// users run independently.
func (e *syncEngine) SyncRound(ctx context.Context, userID string) (SyncResult, error) {
	if userID == "" {
		return SyncResult{}, ErrNoOwner
	}

	v, _, _ := e.group.Do(userID, func() (any, error) {
		result, err := e.runRound(ctx, userID)
		return roundOutcome{result: result, err: err}, nil
	})

	outcome := v.(roundOutcome)
	return outcome.result, outcome.err
}

// runRound executes the four phases in strict order: deletions and mutations
// are pushed before anything is pulled, so an offline edit always has the
// chance to propagate before a stale server copy could overwrite it.
func (e *syncEngine) runRound(ctx context.Context, userID string) (SyncResult, error) {
	var res SyncResult

	if err := e.pushDeletions(ctx, userID, &res); err != nil {
		return res, err
	}
	if err := e.pushMutations(ctx, userID, &res); err != nil {
		return res, err
	}

	serverLists, serverItems, itemsPulled, err := e.pull(ctx, userID, &res)
	if err != nil {
		return res, err
	}

	if err := e.merge(ctx, userID, serverLists, serverItems, itemsPulled, &res); err != nil {
		return res, err
	}

	return res, nil
}

// pushDeletions sends a delete for every tombstoned entity and purges the
// tombstone on acknowledgment. Delete is idempotent: a not-found response
// means the server already forgot the entity and counts as success.
func (e *syncEngine) pushDeletions(ctx context.Context, userID string, res *SyncResult) error {
	deleted := []models.SyncState{models.StateDeleted}

	items, err := e.repo.GetAllItemsWithSyncStates(ctx, deleted, userID)
	if err != nil {
		return fmt.Errorf("load tombstoned items: %w", err)
	}
	for _, item := range items {
		_, sendErr := e.dispatcher.Send(ctx, adapter.Request{
			Method:     http.MethodDelete,
			Path:       itemPath(userID, item.ListID, item.ID),
			Permission: models.PermissionListDelete,
		})
		if sendErr != nil && !errors.Is(sendErr, adapter.ErrNotFound) {
			res.fail("item", item.ID, "delete", sendErr)
			continue
		}

		if err = e.repo.DeleteItem(ctx, item.ID); err != nil {
			return fmt.Errorf("purge item tombstone %s: %w", item.ID, err)
		}
		res.PurgedItems++
	}

	lists, err := e.repo.GetAllListsWithSyncStates(ctx, deleted, userID)
	if err != nil {
		return fmt.Errorf("load tombstoned lists: %w", err)
	}
	for _, list := range lists {
		_, sendErr := e.dispatcher.Send(ctx, adapter.Request{
			Method:     http.MethodDelete,
			Path:       listPath(userID, list.ID),
			Permission: models.PermissionListDelete,
		})
		if sendErr != nil && !errors.Is(sendErr, adapter.ErrNotFound) {
			res.fail("list", list.ID, "delete", sendErr)
			continue
		}

		if err = e.repo.DeleteList(ctx, list.ID); err != nil {
			return fmt.Errorf("purge list tombstone %s: %w", list.ID, err)
		}
		res.PurgedLists++
	}

	return nil
}

// pushMutations upserts every ToSync entity. On confirmation the local copy
// becomes Synced with the server-assigned timestamp; on failure it stays
// ToSync for the next round.
func (e *syncEngine) pushMutations(ctx context.Context, userID string, res *SyncResult) error {
	toSync := []models.SyncState{models.StateToSync}

	lists, err := e.repo.GetAllListsWithSyncStates(ctx, toSync, userID)
	if err != nil {
		return fmt.Errorf("load modified lists: %w", err)
	}
	for _, list := range lists {
		resp, sendErr := e.dispatcher.Send(ctx, adapter.Request{
			Method:     http.MethodPut,
			Path:       listPath(userID, list.ID),
			Body:       list,
			Permission: models.PermissionListUpdate,
		})
		if sendErr != nil {
			res.fail("list", list.ID, "push", sendErr)
			continue
		}

		var confirmed models.ShoppingList
		if decodeErr := resp.Decode(&confirmed); decodeErr != nil {
			res.fail("list", list.ID, "push", decodeErr)
			continue
		}

		if err = e.confirmList(ctx, list, confirmed); err != nil {
			return err
		}
		res.PushedLists++
	}

	items, err := e.repo.GetAllItemsWithSyncStates(ctx, toSync, userID)
	if err != nil {
		return fmt.Errorf("load modified items: %w", err)
	}
	for _, item := range items {
		resp, sendErr := e.dispatcher.Send(ctx, adapter.Request{
			Method:     http.MethodPut,
			Path:       itemPath(userID, item.ListID, item.ID),
			Body:       item,
			Permission: models.PermissionListUpdate,
		})
		if sendErr != nil {
			res.fail("item", item.ID, "push", sendErr)
			continue
		}

		var confirmed models.ShoppingListItem
		if decodeErr := resp.Decode(&confirmed); decodeErr != nil {
			res.fail("item", item.ID, "push", decodeErr)
			continue
		}

		if err = e.confirmItem(ctx, item, confirmed); err != nil {
			return err
		}
		res.PushedItems++
	}

	return nil
}

// confirmList marks a pushed list Synced with the server-confirmed content,
// unless a local edit raced the push (the row's timestamp moved on), in which
// case the newer edit stays ToSync for the next round.
func (e *syncEngine) confirmList(ctx context.Context, pushed, confirmed models.ShoppingList) error {
	unlock := e.locks.lock(pushed.ID)
	defer unlock()

	current, err := e.repo.GetList(ctx, pushed.ID)
	if err != nil {
		return fmt.Errorf("confirm pushed list %s: %w", pushed.ID, err)
	}
	if current.Modified != pushed.Modified || current.State != models.StateToSync {
		return nil
	}

	confirmed.State = models.StateSynced
	if confirmed.Modified < pushed.Modified {
		confirmed.Modified = pushed.Modified
	}
	if err = e.repo.InsertOrReplaceList(ctx, confirmed); err != nil {
		return fmt.Errorf("confirm pushed list %s: %w", pushed.ID, err)
	}

	return nil
}

func (e *syncEngine) confirmItem(ctx context.Context, pushed, confirmed models.ShoppingListItem) error {
	unlock := e.locks.lock(pushed.ID)
	defer unlock()

	current, err := e.repo.GetItem(ctx, pushed.ID)
	if err != nil {
		return fmt.Errorf("confirm pushed item %s: %w", pushed.ID, err)
	}
	if current.Modified != pushed.Modified || current.State != models.StateToSync {
		return nil
	}

	confirmed.State = models.StateSynced
	if confirmed.Modified < pushed.Modified {
		confirmed.Modified = pushed.Modified
	}
	if err = e.repo.InsertOrReplaceItem(ctx, confirmed); err != nil {
		return fmt.Errorf("confirm pushed item %s: %w", pushed.ID, err)
	}

	return nil
}

// pull fetches the server's current lists and, per list, their items. A
// failed item fetch is recorded and that list is excluded from item-level
// merge decisions (absence of its items must not read as deletion).
func (e *syncEngine) pull(ctx context.Context, userID string, res *SyncResult) ([]models.ShoppingList, map[string][]models.ShoppingListItem, map[string]bool, error) {
	resp, err := e.dispatcher.Send(ctx, adapter.Request{
		Method: http.MethodGet,
		Path:   listsPath(userID),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pull shopping lists: %w", err)
	}

	var serverLists []models.ShoppingList
	if err = resp.Decode(&serverLists); err != nil {
		return nil, nil, nil, fmt.Errorf("pull shopping lists: %w", err)
	}

	serverItems := make(map[string][]models.ShoppingListItem, len(serverLists))
	itemsPulled := make(map[string]bool, len(serverLists))

	for _, list := range serverLists {
		itemsResp, itemsErr := e.dispatcher.Send(ctx, adapter.Request{
			Method: http.MethodGet,
			Path:   itemsPath(userID, list.ID),
		})
		if itemsErr != nil {
			res.fail("list", list.ID, "pull", itemsErr)
			continue
		}

		var items []models.ShoppingListItem
		if decodeErr := itemsResp.Decode(&items); decodeErr != nil {
			res.fail("list", list.ID, "pull", decodeErr)
			continue
		}

		serverItems[list.ID] = items
		itemsPulled[list.ID] = true
	}

	return serverLists, serverItems, itemsPulled, nil
}

// merge reconciles pulled server state with the local store, one entity at a
// time. Local entities with a pending push (ToSync or Deleted) always win;
// they will be pushed on the next round. Otherwise the strictly greater
// modification timestamp wins, and equal timestamps mean identical content.
func (e *syncEngine) merge(ctx context.Context, userID string, serverLists []models.ShoppingList, serverItems map[string][]models.ShoppingListItem, itemsPulled map[string]bool, res *SyncResult) error {
	allStates := []models.SyncState{models.StateSynced, models.StateToSync, models.StateDeleted}

	localLists, err := e.repo.GetAllListsWithSyncStates(ctx, allStates, userID)
	if err != nil {
		return fmt.Errorf("load local lists for merge: %w", err)
	}
	localListIdx := make(map[string]models.ShoppingList, len(localLists))
	for _, list := range localLists {
		localListIdx[list.ID] = list
	}

	// Lists whose local copy is tombstoned: their pending deletion also
	// protects their items from being re-created by the pull.
	pendingDelete := make(map[string]bool)
	for _, list := range localLists {
		if list.State == models.StateDeleted {
			pendingDelete[list.ID] = true
		}
	}

	serverListIdx := make(map[string]bool, len(serverLists))
	for _, serverList := range serverLists {
		serverListIdx[serverList.ID] = true

		if err = e.mergeList(ctx, serverList, localListIdx, res); err != nil {
			return err
		}
	}

	// Server no longer has a list the local store considers Synced: the
	// deletion happened remotely, remove immediately without a tombstone.
	for _, local := range localLists {
		if local.State != models.StateSynced || serverListIdx[local.ID] {
			continue
		}

		unlock := e.locks.lock(local.ID)
		err = e.repo.DeleteList(ctx, local.ID)
		unlock()
		if err != nil {
			return fmt.Errorf("remove remotely deleted list %s: %w", local.ID, err)
		}
		res.RemovedLists++
	}

	localItems, err := e.repo.GetAllItemsWithSyncStates(ctx, allStates, userID)
	if err != nil {
		return fmt.Errorf("load local items for merge: %w", err)
	}
	localItemIdx := make(map[string]models.ShoppingListItem, len(localItems))
	for _, item := range localItems {
		localItemIdx[item.ID] = item
	}

	serverItemIdx := make(map[string]bool)
	for listID, items := range serverItems {
		if pendingDelete[listID] {
			// The list is on its way out locally; do not resurrect items.
			continue
		}
		for _, serverItem := range items {
			serverItemIdx[serverItem.ID] = true

			if err = e.mergeItem(ctx, serverItem, localItemIdx, res); err != nil {
				return err
			}
		}
	}

	for _, local := range localItems {
		if local.State != models.StateSynced || serverItemIdx[local.ID] {
			continue
		}
		// Only a successfully pulled item set can prove a remote deletion.
		if !itemsPulled[local.ListID] {
			continue
		}

		unlock := e.locks.lock(local.ID)
		err = e.repo.DeleteItem(ctx, local.ID)
		unlock()
		if err != nil {
			return fmt.Errorf("remove remotely deleted item %s: %w", local.ID, err)
		}
		res.RemovedItems++
	}

	return nil
}

func (e *syncEngine) mergeList(ctx context.Context, serverList models.ShoppingList, localIdx map[string]models.ShoppingList, res *SyncResult) error {
	unlock := e.locks.lock(serverList.ID)
	defer unlock()

	local, exists := localIdx[serverList.ID]

	switch {
	case !exists:
		// Never seen locally: adopt as Synced.
	case local.State != models.StateSynced:
		// Pending local mutation or deletion wins; phase 1/2 of the next
		// round pushes it.
		return nil
	case serverList.Modified <= local.Modified:
		// Same or older timestamp on a Synced copy: identical by
		// construction, no write.
		return nil
	}

	serverList.State = models.StateSynced
	if err := e.repo.InsertOrReplaceList(ctx, serverList); err != nil {
		return fmt.Errorf("apply pulled list %s: %w", serverList.ID, err)
	}
	res.PulledLists++

	return nil
}

func (e *syncEngine) mergeItem(ctx context.Context, serverItem models.ShoppingListItem, localIdx map[string]models.ShoppingListItem, res *SyncResult) error {
	unlock := e.locks.lock(serverItem.ID)
	defer unlock()

	local, exists := localIdx[serverItem.ID]

	switch {
	case !exists:
	case local.State != models.StateSynced:
		return nil
	case serverItem.Modified <= local.Modified:
		return nil
	}

	serverItem.State = models.StateSynced
	if err := e.repo.InsertOrReplaceItem(ctx, serverItem); err != nil {
		return fmt.Errorf("apply pulled item %s: %w", serverItem.ID, err)
	}
	res.PulledItems++

	return nil
}

func listsPath(userID string) string {
	return "/v2/users/" + url.PathEscape(userID) + "/shoppinglists"
}

func listPath(userID, listID string) string {
	return listsPath(userID) + "/" + url.PathEscape(listID)
}

func itemsPath(userID, listID string) string {
	return listPath(userID, listID) + "/items"
}

func itemPath(userID, listID, itemID string) string {
	return itemsPath(userID, listID) + "/" + url.PathEscape(itemID)
}
