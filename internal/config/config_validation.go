package config

import (
	"errors"
	"fmt"
)

// Validation errors reported by [StructuredConfig.Validate].
var (
	ErrNoAPIKey    = errors.New("api key is not set")
	ErrNoAPISecret = errors.New("api secret is not set")
	ErrNoBaseURL   = errors.New("adapter base url is not set")

	// ErrNoSessionFile is reported when session persistence is enabled but
	// no snapshot path was configured.
	ErrNoSessionFile = errors.New("session persistence enabled but no session file configured")
)

func (c *StructuredConfig) Validate() error {
	var errs []error

	if c.API.Key == "" {
		errs = append(errs, ErrNoAPIKey)
	}
	if c.API.Secret == "" {
		errs = append(errs, ErrNoAPISecret)
	}
	if c.Adapter.BaseURL == "" {
		errs = append(errs, ErrNoBaseURL)
	}
	if c.Storage.Session.Enabled && c.Storage.Session.FilePath == "" {
		errs = append(errs, ErrNoSessionFile)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}
