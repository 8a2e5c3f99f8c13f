package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/heartmarshall/mmovies-importer/internal/config"
	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

func TestOpenStore_BadgerInMemory(t *testing.T) {
	cfg := &config.Config{
		Store:  config.StoreConfig{Driver: config.DriverBadger},
		Badger: config.BadgerConfig{InMemory: true, LookupCacheSize: 8},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store, closeFn, err := OpenStore(ctx, cfg, log)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer closeFn()

	if err := store.InsertMovie(ctx, domain.NewMovie("Alpha (2001)", "2001")); err != nil {
		t.Fatalf("InsertMovie: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, _, err := OpenStore(context.Background(), cfg, log); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
