package store

import "fmt"

// Backend selects the persistence implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
)

// Config selects and parameterises the store backend.
type Config struct {
	Backend     Backend `json:"backend"`
	DatabaseURL string  `json:"database_url"`
}

func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store: database_url is required for the postgres backend")
		}
		return nil
	default:
		return fmt.Errorf("store: unknown backend %q", c.Backend)
	}
}
