package service

import (
	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/store"
)

// Services groups the SDK's domain services into a single value for the
// facade to hold.
type Services struct {
	Lists    ListService
	Catalogs CatalogService
	Sync     SyncEngine
	SyncJob  SyncJob
}

// NewServices wires the domain services over the local storage layer and the
// request pipeline. The list service and the sync engine share one entity
// lock table so their writes per identifier are serialised.
func NewServices(storages *store.Storages, dispatcher adapter.Dispatcher, gateway *adapter.CacheGateway, log *logger.Logger) *Services {
	locks := newEntityLocks()
	engine := NewSyncEngine(storages.ShoppingLists, dispatcher, locks, log)

	return &Services{
		Lists:    NewListService(storages.ShoppingLists, locks),
		Catalogs: NewCatalogService(gateway),
		Sync:     engine,
		SyncJob:  NewSyncJob(engine, log),
	}
}
