package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-api-key application API key
//	-api-secret application API secret
//	-base-url catalog service endpoint
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-d local database DSN (SQLite path or ":memory:")
//	-session-file session snapshot path
//	-persist-session enable session persistence between runs
//	-sync-interval background sync interval (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var apiKey string
	var apiSecret string
	var baseURL string
	var requestTimeout time.Duration
	var databaseDSN string
	var sessionFile string
	var persistSession bool
	var syncInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&apiKey, "api-key", "", "Application API key")
	flag.StringVar(&apiSecret, "api-secret", "", "Application API secret")
	flag.StringVar(&baseURL, "base-url", "", "Catalog service endpoint")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&sessionFile, "session-file", "", "Session snapshot path")
	flag.BoolVar(&persistSession, "persist-session", false, "Persist session between runs")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		API: API{
			Key:    apiKey,
			Secret: apiSecret,
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Session: SessionStorage{
				FilePath: sessionFile,
				Enabled:  persistSession,
			},
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}
