package store

import (
	"context"
	"fmt"

	"github.com/nordvik/shopsync/internal/config"
	"github.com/nordvik/shopsync/internal/logger"
)

// Storages groups the local storage repositories into a single value that can
// be passed around the service layer.
type Storages struct {
	// ShoppingLists is the SQLite-backed repository for the user's shopping
	// lists and items.
	ShoppingLists ShoppingListRepository

	db *DB
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}

// NewStorages initialises the local storage layer: it opens the SQLite
// database configured in cfg.DB (creating the file if needed), runs pending
// schema migrations, and wires up a fresh [ShoppingListRepository].
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		ShoppingLists: NewShoppingListRepository(db, logger),
		db:            db,
	}, nil
}
