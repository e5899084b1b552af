// Package shopsync is the client SDK for the catalog service: it manages the
// API session, signs and dispatches requests, serves cached catalog reads,
// and keeps an offline-capable local copy of the user's shopping lists that
// is reconciled with the server by an explicit or background sync.
package shopsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/internal/config"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/service"
	"github.com/nordvik/shopsync/internal/session"
	"github.com/nordvik/shopsync/internal/store"
	"github.com/nordvik/shopsync/internal/workers"
	"github.com/nordvik/shopsync/models"
)

// ErrNoAttachedUser is returned by operations that need a signed-in user
// when the current session is anonymous.
var ErrNoAttachedUser = errors.New("no user attached to the session")

// Re-exported domain types so embedding applications only import the root
// package.
type (
	Session          = models.Session
	SessionUser      = models.SessionUser
	Credentials      = models.Credentials
	ShoppingList     = models.ShoppingList
	ShoppingListItem = models.ShoppingListItem
	Catalog          = models.Catalog
	Store            = models.Store
	CatalogQuery     = models.CatalogQuery

	Geolocation    = adapter.Geolocation
	Response       = adapter.Response
	FetchResult    = adapter.FetchResult
	SyncResult     = service.SyncResult
	CatalogsResult = service.CatalogsResult
	StoresResult   = service.StoresResult
)

// Config configures a [Client]. APIKey, APISecret and BaseURL are required;
// everything else has a usable default.
type Config struct {
	// APIKey and APISecret are the application credentials issued by the
	// catalog service.
	APIKey    string
	APISecret string

	// BaseURL is the service endpoint, e.g. "https://api.example.com".
	// A bare host is treated as https.
	BaseURL string

	// RequestTimeout bounds each outbound request. Defaults to 30s.
	RequestTimeout time.Duration

	// DBPath is the SQLite file backing the local shopping-list store.
	// Defaults to ":memory:".
	DBPath string

	// SessionFile and PersistSession control session persistence between
	// runs. When PersistSession is false sessions are purely in-memory.
	SessionFile    string
	PersistSession bool

	// SyncInterval is the background sync period. Defaults to 5m.
	SyncInterval time.Duration

	// LogOutput receives structured logs. Defaults to os.Stderr.
	LogOutput io.Writer
}

func (c Config) structured() *config.StructuredConfig {
	cfg := &config.StructuredConfig{
		API: config.API{Key: c.APIKey, Secret: c.APISecret},
		Adapter: config.Adapter{
			BaseURL:        c.BaseURL,
			RequestTimeout: c.RequestTimeout,
		},
		Storage: config.Storage{
			DB: config.DB{DSN: c.DBPath},
			Session: config.SessionStorage{
				FilePath: c.SessionFile,
				Enabled:  c.PersistSession,
			},
		},
		Workers: config.Workers{SyncInterval: c.SyncInterval},
	}
	cfg.ApplyDefaults()
	return cfg
}

// Client is the SDK entry point. All methods are safe for concurrent use.
type Client struct {
	cfg      *config.StructuredConfig
	log      *logger.Logger
	sessions *session.Manager
	pipeline *adapter.HTTPDispatcher
	gateway  *adapter.CacheGateway
	storages *store.Storages
	services *service.Services

	bgMu       sync.Mutex
	background *workers.Workers
}

// New builds a client from cfg. It opens the local database and restores a
// persisted session, but performs no network requests; the first session is
// established lazily by the first request (or eagerly via [Client.Connect]).
func New(cfg Config) (*Client, error) {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	return newClient(cfg.structured(), out)
}

// NewFromEnv builds a client configured from SHOPSYNC_* environment
// variables and the optional JSON config file they point to.
func NewFromEnv() (*Client, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return newClient(cfg, os.Stderr)
}

func newClient(cfg *config.StructuredConfig, logOut io.Writer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("shopsync", logOut)

	httpClient, err := adapter.NewHTTPClient(cfg.Adapter)
	if err != nil {
		return nil, err
	}

	var snapshots session.SnapshotStore
	if cfg.Storage.Session.Enabled {
		snapshots = session.NewFileSnapshotStore(cfg.Storage.Session.FilePath)
	}

	sessionAPI := adapter.NewSessionClient(httpClient, cfg.API.Key, cfg.API.Secret, log)
	sessions := session.NewManager(sessionAPI, snapshots, log)

	pipeline := adapter.NewHTTPDispatcher(httpClient, cfg.API.Secret, sessions, log)
	gateway := adapter.NewCacheGateway(pipeline)

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	return &Client{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		pipeline: pipeline,
		gateway:  gateway,
		storages: storages,
		services: service.NewServices(storages, pipeline, gateway, log),
	}, nil
}

// Connect eagerly establishes a session. Calling it is optional; every
// request establishes one on demand.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	return c.sessions.EnsureActiveSession(ctx)
}

// ConnectWithUser establishes a session and signs creds into it in one step.
func (c *Client) ConnectWithUser(ctx context.Context, creds Credentials) (*Session, error) {
	if _, err := c.sessions.EnsureActiveSession(ctx); err != nil {
		return nil, err
	}
	return c.sessions.AttachUser(ctx, creds)
}

// Session returns the current session, or nil when none has been
// established. It never triggers session creation.
func (c *Client) Session() *Session {
	return c.sessions.Current()
}

// AttachUser signs the given account into the session.
func (c *Client) AttachUser(ctx context.Context, creds Credentials) (*Session, error) {
	return c.sessions.AttachUser(ctx, creds)
}

// DetachUser signs the current account out, keeping the session itself.
func (c *Client) DetachUser(ctx context.Context) (*Session, error) {
	return c.sessions.DetachUser(ctx)
}

// CanReadShoppingLists reports whether the current session may read lists.
func (c *Client) CanReadShoppingLists() bool {
	return c.Session().Allows(models.PermissionListRead)
}

// CanUpdateShoppingLists reports whether the current session may create or
// modify lists.
func (c *Client) CanUpdateShoppingLists() bool {
	return c.Session().Allows(models.PermissionListUpdate)
}

// CanDeleteShoppingLists reports whether the current session may delete
// lists.
func (c *Client) CanDeleteShoppingLists() bool {
	return c.Session().Allows(models.PermissionListDelete)
}

// SetLocation attaches loc to every future request as r_lat/r_lng (and
// r_radius, clamped to the nearest accepted distance, when set).
func (c *Client) SetLocation(loc Geolocation) {
	c.pipeline.SetLocation(loc)
}

// SetDistance changes the search radius of the current location, clamped to
// the nearest accepted distance when sent. It has no effect while no
// location is set.
func (c *Client) SetDistance(meters int) {
	c.pipeline.SetDistance(meters)
}

// ClearLocation stops sending location parameters.
func (c *Client) ClearLocation() {
	c.pipeline.ClearLocation()
}

// API sends an arbitrary request through the full pipeline: session
// establishment, token signing, geolocation parameters, and the single
// renew-and-retry on an authorization failure.
func (c *Client) API(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	return c.pipeline.Send(ctx, adapter.Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
}

// Fetch is the cache-aware variant of [Client.API] for GET endpoints: with
// useCache it emits a cached copy first when one exists, then the live
// response. The channel delivers at most two results and is then closed.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values, useCache bool) <-chan FetchResult {
	return c.gateway.Fetch(ctx, adapter.Request{
		Method: "GET",
		Path:   path,
		Query:  query,
	}, useCache)
}

// GetCatalogs fetches catalogs matching q, cache-first when useCache is set.
func (c *Client) GetCatalogs(ctx context.Context, q CatalogQuery, useCache bool) <-chan CatalogsResult {
	return c.services.Catalogs.GetCatalogs(ctx, q, useCache)
}

// GetStores fetches stores matching q, cache-first when useCache is set.
func (c *Client) GetStores(ctx context.Context, q CatalogQuery, useCache bool) <-chan StoresResult {
	return c.services.Catalogs.GetStores(ctx, q, useCache)
}

// ShoppingLists returns the attached user's lists from the local store,
// excluding ones deleted locally but not yet acknowledged by the server.
func (c *Client) ShoppingLists(ctx context.Context) ([]ShoppingList, error) {
	userID, err := c.attachedUserID()
	if err != nil {
		return nil, err
	}
	return c.services.Lists.GetLists(ctx, userID)
}

// CreateShoppingList creates a private list for the attached user. The list
// is stored locally and pushed by the next sync round.
func (c *Client) CreateShoppingList(ctx context.Context, name string) (ShoppingList, error) {
	userID, err := c.attachedUserID()
	if err != nil {
		return ShoppingList{}, err
	}
	return c.services.Lists.CreateList(ctx, userID, name)
}

// UpdateShoppingList overwrites the local copy of list and marks it for the
// next sync round.
func (c *Client) UpdateShoppingList(ctx context.Context, list ShoppingList) (ShoppingList, error) {
	return c.services.Lists.UpdateList(ctx, list)
}

// DeleteShoppingList deletes the list locally; the row is purged once the
// server acknowledges the deletion.
func (c *Client) DeleteShoppingList(ctx context.Context, listID string) error {
	return c.services.Lists.DeleteList(ctx, listID)
}

// ShoppingListItems returns a list's items in order, excluding locally
// deleted ones.
func (c *Client) ShoppingListItems(ctx context.Context, listID string) ([]ShoppingListItem, error) {
	return c.services.Lists.GetItems(ctx, listID)
}

// CreateShoppingListItem appends an item to the list.
func (c *Client) CreateShoppingListItem(ctx context.Context, listID, description string) (ShoppingListItem, error) {
	return c.services.Lists.CreateItem(ctx, listID, description)
}

// UpdateShoppingListItem overwrites the local copy of item and marks it for
// the next sync round.
func (c *Client) UpdateShoppingListItem(ctx context.Context, item ShoppingListItem) (ShoppingListItem, error) {
	return c.services.Lists.UpdateItem(ctx, item)
}

// DeleteShoppingListItem deletes an item locally.
func (c *Client) DeleteShoppingListItem(ctx context.Context, itemID string) error {
	return c.services.Lists.DeleteItem(ctx, itemID)
}

// Sync runs one full sync round for the attached user: acknowledged
// deletions are purged, local edits pushed, and server state pulled and
// merged. A round already running for the same user is joined rather than
// duplicated.
func (c *Client) Sync(ctx context.Context) (SyncResult, error) {
	userID, err := c.attachedUserID()
	if err != nil {
		return SyncResult{}, err
	}
	return c.services.Sync.SyncRound(ctx, userID)
}

// StartBackgroundSync runs sync rounds for the attached user at the
// configured interval until [Client.StopBackgroundSync] or Close is called.
func (c *Client) StartBackgroundSync(ctx context.Context) error {
	userID, err := c.attachedUserID()
	if err != nil {
		return err
	}

	c.bgMu.Lock()
	defer c.bgMu.Unlock()

	c.stopBackgroundLocked()
	c.background = workers.New(&syncWorker{
		job:      c.services.SyncJob,
		userID:   userID,
		interval: c.cfg.Workers.SyncInterval,
	})
	c.background.Run(ctx)
	return nil
}

// StopBackgroundSync stops the background sync worker, if running.
func (c *Client) StopBackgroundSync() {
	c.bgMu.Lock()
	defer c.bgMu.Unlock()
	c.stopBackgroundLocked()
}

func (c *Client) stopBackgroundLocked() {
	if c.background != nil {
		c.background.Stop()
		c.background = nil
	}
}

// Close stops background work and closes the local database. The session
// snapshot, if persistence is enabled, stays on disk for the next run.
func (c *Client) Close() error {
	c.StopBackgroundSync()
	return c.storages.Close()
}

func (c *Client) attachedUserID() (string, error) {
	sess := c.sessions.Current()
	if sess == nil || sess.User == nil {
		return "", ErrNoAttachedUser
	}
	return sess.User.ID, nil
}
