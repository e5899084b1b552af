package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the shopsync
// SDK. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// API holds the credentials identifying the embedding application
	// against the catalog service.
	API API `envPrefix:"API_"`

	// Adapter holds network settings for the outbound transport layer.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds settings for the local shopping-list database and the
	// session snapshot.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background sync worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the SHOPSYNC_CONFIG variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// API holds the application credentials issued by the catalog service.
type API struct {
	// Key identifies the application. Sent when creating a session.
	// Env: SHOPSYNC_API_KEY
	Key string `env:"KEY"`

	// Secret signs the session token on every request. Must be kept
	// confidential and is never transmitted itself.
	// Env: SHOPSYNC_API_SECRET
	Secret string `env:"SECRET"`
}

// Adapter holds network settings used by the transport layer.
type Adapter struct {
	// BaseURL is the catalog service endpoint, e.g. "https://api.example.com".
	// Env: SHOPSYNC_ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: SHOPSYNC_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds local database settings.
	DB DB `envPrefix:"DB_"`

	// Session holds session snapshot settings.
	Session SessionStorage `envPrefix:"SESSION_"`
}

// DB contains local database connection settings.
type DB struct {
	// DSN is the SQLite file path (or ":memory:") for the local
	// shopping-list store.
	// Env: SHOPSYNC_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// SessionStorage controls whether and where the active session is persisted
// between runs.
type SessionStorage struct {
	// FilePath is where the session snapshot is written.
	// Env: SHOPSYNC_STORAGE_SESSION_FILE
	FilePath string `env:"FILE"`

	// Enabled toggles persistence. When false, sessions are purely
	// in-memory and a new session is created on every start.
	// Env: SHOPSYNC_STORAGE_SESSION_ENABLED
	Enabled bool `env:"ENABLED"`
}

// Workers contains background sync worker settings.
type Workers struct {
	// SyncInterval defines how often the background sync worker runs a
	// sync round.
	// Env: SHOPSYNC_WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultSyncInterval   = 5 * time.Minute
)

// ApplyDefaults fills zero-valued optional fields after merging all sources.
func (c *StructuredConfig) ApplyDefaults() {
	if c.Adapter.RequestTimeout <= 0 {
		c.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if c.Workers.SyncInterval <= 0 {
		c.Workers.SyncInterval = defaultSyncInterval
	}
	if c.Storage.DB.DSN == "" {
		c.Storage.DB.DSN = ":memory:"
	}
}
