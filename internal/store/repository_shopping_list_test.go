package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/models"
)

func newTestRepo(t *testing.T) (ShoppingListRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{DB: db, logger: logger.Nop()}
	return NewShoppingListRepository(storeDB, logger.Nop()), mock
}

var (
	listColumns = []string{"id", "name", "owner_id", "access", "state", "modified"}
	itemColumns = []string{"id", "list_id", "description", "tick", "order_index", "state", "modified"}
)

// ── Lists ────────────────────────────────────────────────────────────────────

func TestInsertOrReplaceList(t *testing.T) {
	repo, mock := newTestRepo(t)

	list := models.ShoppingList{
		ID:       "l1",
		Name:     "Groceries",
		OwnerID:  "u1",
		Access:   "private",
		State:    models.StateToSync,
		Modified: 100,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO shopping_lists")).
		WithArgs(list.ID, list.Name, list.OwnerID, list.Access, list.State, list.Modified).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertOrReplaceList(context.Background(), list))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetList(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows(listColumns).
		AddRow("l1", "Groceries", "u1", "private", models.StateSynced, int64(100))
	mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_lists")).
		WithArgs("l1").
		WillReturnRows(rows)

	list, err := repo.GetList(context.Background(), "l1")
	require.NoError(t, err)

	assert.Equal(t, "Groceries", list.Name)
	assert.Equal(t, models.StateSynced, list.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetList_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_lists")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetList(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestGetAllListsWithSyncStates(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows(listColumns).
		AddRow("l2", "Hardware", "u1", "private", models.StateToSync, int64(200)).
		AddRow("l1", "Groceries", "u1", "private", models.StateSynced, int64(100))

	// squirrel renders the state filter as an IN clause ordered after owner_id.
	mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_lists")).
		WithArgs("u1", models.StateSynced, models.StateToSync).
		WillReturnRows(rows)

	lists, err := repo.GetAllListsWithSyncStates(context.Background(),
		[]models.SyncState{models.StateSynced, models.StateToSync}, "u1")
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, "l2", lists[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteList_CascadesInOneTransaction(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shopping_list_items")).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shopping_lists")).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteList(context.Background(), "l1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteList_RollsBackOnItemDeleteFailure(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shopping_list_items")).
		WithArgs("l1").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.DeleteList(context.Background(), "l1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Items ────────────────────────────────────────────────────────────────────

func TestInsertOrReplaceItem(t *testing.T) {
	repo, mock := newTestRepo(t)

	item := models.ShoppingListItem{
		ID:          "i1",
		ListID:      "l1",
		Description: "Milk",
		Tick:        true,
		OrderIndex:  2,
		State:       models.StateToSync,
		Modified:    100,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO shopping_list_items")).
		WithArgs(item.ID, item.ListID, item.Description, item.Tick, item.OrderIndex, item.State, item.Modified).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertOrReplaceItem(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItem_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_list_items")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetItemsForList_OrderedByOrderIndex(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows(itemColumns).
		AddRow("i1", "l1", "Milk", false, int64(1), models.StateSynced, int64(100)).
		AddRow("i2", "l1", "Bread", true, int64(2), models.StateToSync, int64(200))

	mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_list_items")).
		WithArgs("l1", models.StateSynced, models.StateToSync).
		WillReturnRows(rows)

	items, err := repo.GetItemsForList(context.Background(), "l1",
		[]models.SyncState{models.StateSynced, models.StateToSync})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Description)
	assert.True(t, items[1].Tick)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllItemsWithSyncStates_JoinsOwner(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows(itemColumns).
		AddRow("i1", "l1", "Milk", false, int64(1), models.StateDeleted, int64(100))

	mock.ExpectQuery(regexp.QuoteMeta("JOIN shopping_lists l ON l.id = i.list_id")).
		WithArgs(models.StateDeleted, "u1").
		WillReturnRows(rows)

	items, err := repo.GetAllItemsWithSyncStates(context.Background(),
		[]models.SyncState{models.StateDeleted}, "u1")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, models.StateDeleted, items[0].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItem(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shopping_list_items")).
		WithArgs("i1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteItem(context.Background(), "i1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
