package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. All variables share the SHOPSYNC_ prefix; struct fields are mapped
// via their `env` and `envPrefix` tags defined on [StructuredConfig] and its
// nested types.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SHOPSYNC_"}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
