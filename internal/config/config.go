package config

import "time"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Badger   BadgerConfig   `yaml:"badger"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"postgres"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// BadgerConfig holds embedded key-value store settings.
type BadgerConfig struct {
	Dir             string `yaml:"dir"               env:"BADGER_DIR"               env-default:"./data/movies"`
	InMemory        bool   `yaml:"in_memory"         env:"BADGER_IN_MEMORY"`
	LookupCacheSize int    `yaml:"lookup_cache_size" env:"BADGER_LOOKUP_CACHE_SIZE" env-default:"4096"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
