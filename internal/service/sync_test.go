package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/store"
	"github.com/nordvik/shopsync/models"
)

// fakeRepo is an in-memory ShoppingListRepository. It avoids scripting every row
// read through gomock.
type fakeRepo struct {
	mu    sync.Mutex
	lists map[string]models.ShoppingList
	items map[string]models.ShoppingListItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		lists: make(map[string]models.ShoppingList),
		items: make(map[string]models.ShoppingListItem),
	}
}

func (f *fakeRepo) InsertOrReplaceList(_ context.Context, list models.ShoppingList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[list.ID] = list
	return nil
}

func (f *fakeRepo) GetList(_ context.Context, listID string) (models.ShoppingList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[listID]
	if !ok {
		return models.ShoppingList{}, store.ErrListNotFound
	}
	return list, nil
}

func (f *fakeRepo) GetAllListsWithSyncStates(_ context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ShoppingList
	for _, list := range f.lists {
		if list.OwnerID == ownerID && stateIn(list.State, states) {
			out = append(out, list)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Modified > out[j].Modified })
	return out, nil
}

func (f *fakeRepo) DeleteList(_ context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.lists, listID)
	for id, item := range f.items {
		if item.ListID == listID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeRepo) InsertOrReplaceItem(_ context.Context, item models.ShoppingListItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) GetItem(_ context.Context, itemID string) (models.ShoppingListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return models.ShoppingListItem{}, store.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeRepo) GetItemsForList(_ context.Context, listID string, states []models.SyncState) ([]models.ShoppingListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ShoppingListItem
	for _, item := range f.items {
		if item.ListID == listID && stateIn(item.State, states) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeRepo) GetAllItemsWithSyncStates(_ context.Context, states []models.SyncState, ownerID string) ([]models.ShoppingListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ShoppingListItem
	for _, item := range f.items {
		parent, ok := f.lists[item.ListID]
		if ok && parent.OwnerID == ownerID && stateIn(item.State, states) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Modified > out[j].Modified })
	return out, nil
}

func (f *fakeRepo) DeleteItem(_ context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemID)
	return nil
}

func stateIn(state models.SyncState, states []models.SyncState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// stubDispatcher serves scripted Dispatcher replies keyed by "METHOD path".
type stubReply struct {
	body any
	err  error
}

type stubDispatcher struct {
	mu      sync.Mutex
	replies map[string]stubReply
	calls   []adapter.Request
}

func newStubDispatcher() *stubDispatcher {
	return &stubDispatcher{replies: make(map[string]stubReply)}
}

func (d *stubDispatcher) on(method, path string, body any, err error) {
	d.replies[method+" "+path] = stubReply{body: body, err: err}
}

func (d *stubDispatcher) Send(_ context.Context, req adapter.Request) (*adapter.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, req)
	reply, ok := d.replies[req.Method+" "+req.Path]
	d.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if reply.err != nil {
		return nil, reply.err
	}

	raw, err := json.Marshal(reply.body)
	if err != nil {
		return nil, err
	}
	return &adapter.Response{StatusCode: http.StatusOK, Body: raw}, nil
}

func (d *stubDispatcher) callCount(method, path string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, call := range d.calls {
		if call.Method == method && call.Path == path {
			n++
		}
	}
	return n
}

func newTestEngine(repo store.ShoppingListRepository, dispatcher adapter.Dispatcher) SyncEngine {
	return NewSyncEngine(repo, dispatcher, newEntityLocks(), logger.Nop())
}

const testUser = "user-1"

func testList(id string, state models.SyncState, modified int64) models.ShoppingList {
	return models.ShoppingList{
		ID:       id,
		Name:     "Groceries " + id,
		OwnerID:  testUser,
		Access:   "private",
		State:    state,
		Modified: modified,
	}
}

func testItem(id, listID string, state models.SyncState, modified int64) models.ShoppingListItem {
	return models.ShoppingListItem{
		ID:          id,
		ListID:      listID,
		Description: "Milk",
		OrderIndex:  1,
		State:       state,
		Modified:    modified,
	}
}

// ── SyncRound ────────────────────────────────────────────────────────────────

func TestSyncEngine_EmptyUserID(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), newStubDispatcher())

	_, err := engine.SyncRound(context.Background(), "")
	require.ErrorIs(t, err, ErrNoOwner)
}

func TestSyncEngine_PushDeletion_PurgesOnAcknowledge(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	list := testList("l1", models.StateDeleted, 100)
	item := testItem("i1", "l1", models.StateDeleted, 100)
	require.NoError(t, repo.InsertOrReplaceList(ctx, list))
	require.NoError(t, repo.InsertOrReplaceItem(ctx, item))

	dispatcher.on(http.MethodDelete, "/v2/users/user-1/shoppinglists/l1/items/i1", map[string]any{}, nil)
	dispatcher.on(http.MethodDelete, "/v2/users/user-1/shoppinglists/l1", map[string]any{}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, 1, result.PurgedLists)
	assert.Equal(t, 1, result.PurgedItems)
	assert.Empty(t, repo.lists)
	assert.Empty(t, repo.items)
}

func TestSyncEngine_PushDeletion_NotFoundCountsAsSuccess(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l1", models.StateDeleted, 100)))

	// The server already forgot the list: delete is idempotent.
	dispatcher.on(http.MethodDelete, "/v2/users/user-1/shoppinglists/l1",
		nil, fmt.Errorf("DELETE /v2/users/user-1/shoppinglists/l1: %w", adapter.ErrNotFound))
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, 1, result.PurgedLists)
	assert.Empty(t, repo.lists)
}

func TestSyncEngine_PushMutation_ConfirmedBecomesSynced(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	local := testList("l1", models.StateToSync, 100)
	require.NoError(t, repo.InsertOrReplaceList(ctx, local))

	confirmed := testList("l1", models.StateSynced, 150)
	dispatcher.on(http.MethodPut, "/v2/users/user-1/shoppinglists/l1", confirmed, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{confirmed}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, 1, result.PushedLists)
	assert.Equal(t, 0, result.PulledLists)

	stored, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.StateSynced, stored.State)
	assert.Equal(t, int64(150), stored.Modified)
}

func TestSyncEngine_PushFailure_KeepsEntityPendingAndIsolated(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l1", models.StateToSync, 100)))
	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l2", models.StateToSync, 200)))

	confirmed := testList("l2", models.StateSynced, 250)
	dispatcher.on(http.MethodPut, "/v2/users/user-1/shoppinglists/l1", nil, errors.New("connection reset"))
	dispatcher.on(http.MethodPut, "/v2/users/user-1/shoppinglists/l2", confirmed, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{confirmed}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l2/items", []models.ShoppingListItem{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	// One list failed, the other still went through.
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "l1", result.Failures[0].ID)
	assert.Equal(t, "push", result.Failures[0].Op)
	assert.Equal(t, 1, result.PushedLists)

	pending, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.StateToSync, pending.State)
}

func TestSyncEngine_MergeLocalPendingEditWins(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	// The local edit could not be pushed and stays pending; the pulled copy
	// is older and must not overwrite it.
	local := testList("l1", models.StateToSync, 200)
	local.Name = "Edited offline"
	require.NoError(t, repo.InsertOrReplaceList(ctx, local))

	stale := testList("l1", models.StateSynced, 100)
	stale.Name = "Stale server copy"
	dispatcher.on(http.MethodPut, "/v2/users/user-1/shoppinglists/l1", nil, errors.New("connection refused"))
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{stale}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, 0, result.PulledLists)

	stored, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Edited offline", stored.Name)
	assert.Equal(t, models.StateToSync, stored.State)
	assert.Equal(t, int64(200), stored.Modified)
}

func TestSyncEngine_MergeNewerServerCopyReplacesSynced(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l1", models.StateSynced, 100)))

	newer := testList("l1", models.StateSynced, 300)
	newer.Name = "Renamed on another device"
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{newer}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PulledLists)

	stored, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed on another device", stored.Name)
	assert.Equal(t, models.StateSynced, stored.State)
}

func TestSyncEngine_MergeAdoptsUnknownServerList(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	remote := testList("l1", models.StateSynced, 100)
	remoteItem := testItem("i1", "l1", models.StateSynced, 100)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{remote}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{remoteItem}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PulledLists)
	assert.Equal(t, 1, result.PulledItems)

	stored, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.StateSynced, stored.State)

	storedItem, err := repo.GetItem(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, models.StateSynced, storedItem.State)
}

func TestSyncEngine_RemoteDeletionRemovesLocalImmediately(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l1", models.StateSynced, 100)))
	require.NoError(t, repo.InsertOrReplaceItem(ctx, testItem("i1", "l1", models.StateSynced, 100)))

	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	// No tombstone phase: the server-side deletion takes effect at once.
	assert.Equal(t, 1, result.RemovedLists)
	assert.Empty(t, repo.lists)
	assert.Empty(t, repo.items)
}

func TestSyncEngine_ItemPullFailureDoesNotReadAsDeletion(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	list := testList("l1", models.StateSynced, 100)
	item := testItem("i1", "l1", models.StateSynced, 100)
	require.NoError(t, repo.InsertOrReplaceList(ctx, list))
	require.NoError(t, repo.InsertOrReplaceItem(ctx, item))

	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{list}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", nil, errors.New("timeout"))

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "pull", result.Failures[0].Op)
	assert.Equal(t, 0, result.RemovedItems)

	_, err = repo.GetItem(ctx, "i1")
	require.NoError(t, err)
}

func TestSyncEngine_PendingListDeletionProtectsItsItems(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	list := testList("l1", models.StateDeleted, 200)
	require.NoError(t, repo.InsertOrReplaceList(ctx, list))

	// Deleting the list on the server fails this round; the pull still
	// reports the list and its items, which must not be resurrected.
	serverCopy := testList("l1", models.StateSynced, 100)
	serverItem := testItem("i1", "l1", models.StateSynced, 100)
	dispatcher.on(http.MethodDelete, "/v2/users/user-1/shoppinglists/l1", nil, errors.New("connection reset"))
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{serverCopy}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{serverItem}, nil)

	result, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, 0, result.PulledItems)
	assert.NotContains(t, repo.items, "i1")

	stored, err := repo.GetList(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.StateDeleted, stored.State)
}

func TestSyncEngine_SecondRoundIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := newStubDispatcher()
	engine := newTestEngine(repo, dispatcher)
	ctx := context.Background()

	require.NoError(t, repo.InsertOrReplaceList(ctx, testList("l1", models.StateToSync, 100)))

	confirmed := testList("l1", models.StateSynced, 150)
	dispatcher.on(http.MethodPut, "/v2/users/user-1/shoppinglists/l1", confirmed, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists", []models.ShoppingList{confirmed}, nil)
	dispatcher.on(http.MethodGet, "/v2/users/user-1/shoppinglists/l1/items", []models.ShoppingListItem{}, nil)

	first, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)
	require.True(t, first.Clean())
	require.False(t, first.NoOp())

	second, err := engine.SyncRound(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, second.Clean())
	assert.True(t, second.NoOp())
}

func TestSyncEngine_ConcurrentRoundsCollapsePerUser(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo, &blockingDispatcher{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	})

	blocking := engine.(*syncEngine).dispatcher.(*blockingDispatcher)
	ctx := context.Background()

	results := make(chan error, 3)
	go func() {
		_, err := engine.SyncRound(ctx, testUser)
		results <- err
	}()

	// Wait until the first round is inside the pull, then pile on callers
	// that must join the in-flight round instead of starting their own.
	<-blocking.entered
	for i := 0; i < 2; i++ {
		go func() {
			_, err := engine.SyncRound(ctx, testUser)
			results <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(blocking.release)

	for i := 0; i < 3; i++ {
		require.NoError(t, <-results)
	}
	assert.Equal(t, int32(1), blocking.pulls.Load())
}

type blockingDispatcher struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	pulls   atomic.Int32
}

func (d *blockingDispatcher) Send(_ context.Context, req adapter.Request) (*adapter.Response, error) {
	if req.Method == http.MethodGet {
		d.pulls.Add(1)
		d.once.Do(func() { close(d.entered) })
		<-d.release
	}
	return &adapter.Response{StatusCode: http.StatusOK, Body: []byte("[]")}, nil
}
