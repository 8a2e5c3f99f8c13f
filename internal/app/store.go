package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/mmovies-importer/internal/adapter/badgerstore"
	postgres "github.com/heartmarshall/mmovies-importer/internal/adapter/postgres"
	"github.com/heartmarshall/mmovies-importer/internal/adapter/postgres/movie"
	"github.com/heartmarshall/mmovies-importer/internal/app/importer"
	"github.com/heartmarshall/mmovies-importer/internal/config"
)

// Compile-time interface assertions.
var (
	_ importer.MovieStore = (*movie.Repo)(nil)
	_ importer.MovieStore = (*badgerstore.Repo)(nil)
)

// OpenStore connects the backend selected by cfg.Store.Driver. For postgres
// it also applies pending migrations. The returned close function releases
// the backend and must be called once.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (importer.MovieStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return movie.New(pool, postgres.NewTxManager(pool)), pool.Close, nil

	case config.DriverBadger:
		repo, err := badgerstore.Open(cfg.Badger, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := repo.Close(); err != nil {
				log.Warn("close badger", slog.String("error", err.Error()))
			}
		}
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
