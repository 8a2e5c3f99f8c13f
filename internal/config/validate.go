package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %s store", DriverPostgres)
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
				c.Database.MinConns, c.Database.MaxConns)
		}
	case DriverBadger:
		if !c.Badger.InMemory && c.Badger.Dir == "" {
			return fmt.Errorf("badger.dir is required unless badger.in_memory is set")
		}
		if c.Badger.LookupCacheSize <= 0 {
			return fmt.Errorf("badger.lookup_cache_size must be > 0 (got %d)", c.Badger.LookupCacheSize)
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q (got %q)", DriverPostgres, DriverBadger, c.Store.Driver)
	}

	return nil
}
