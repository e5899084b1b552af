package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON field names as
// they appear in a config file. Durations are accepted as Go duration
// strings ("30s", "5m").
type StructuredJSONConfig struct {
	API struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
	} `json:"api,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Session struct {
			FilePath string `json:"file"`
			Enabled  bool   `json:"enabled"`
		} `json:"session,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`
}

// Duration wraps time.Duration with JSON unmarshalling from a duration
// string.
type Duration time.Duration

// UnmarshalJSON parses a quoted Go duration string ("1h30m") into d.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// parseJSON reads path and converts the file's contents into a partial
// [StructuredConfig] suitable for merging.
func parseJSON(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading json config file: %w", err)
	}

	var jsonCfg StructuredJSONConfig
	if err = json.Unmarshal(data, &jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json config file: %w", err)
	}

	return &StructuredConfig{
		API: API{
			Key:    jsonCfg.API.Key,
			Secret: jsonCfg.API.Secret,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Session: SessionStorage{
				FilePath: jsonCfg.Storage.Session.FilePath,
				Enabled:  jsonCfg.Storage.Session.Enabled,
			},
		},
		Workers: Workers{SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval)},
	}, nil
}
