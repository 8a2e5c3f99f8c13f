package importer

import (
	"context"
	"fmt"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// EmitStats counts what an Emitter did to the store.
type EmitStats struct {
	Inserted int // documents created
	Updated  int // documents that received appended values
	Missed   int // append records whose name matched nothing
}

// Emitter applies structured records to a MovieStore. Create inserts a new
// document unconditionally; Append enriches existing documents and silently
// drops records whose name is unknown, counting them as misses.
type Emitter struct {
	store  MovieStore
	dryRun bool
	stats  EmitStats
}

// NewEmitter creates an Emitter writing to store. With dryRun set no store
// method is called and only record shapes are checked.
func NewEmitter(store MovieStore, dryRun bool) *Emitter {
	return &Emitter{store: store, dryRun: dryRun}
}

// Create inserts the document {name, year}.
func (e *Emitter) Create(ctx context.Context, name, year string) error {
	if e.dryRun {
		return nil
	}
	if err := e.store.InsertMovie(ctx, domain.NewMovie(name, year)); err != nil {
		return fmt.Errorf("insert movie %q: %w", name, err)
	}
	e.stats.Inserted++
	return nil
}

// Append appends values to field on every document named name.
func (e *Emitter) Append(ctx context.Context, name string, field domain.Field, values ...any) error {
	for _, v := range values {
		if err := domain.CheckValue(field, v); err != nil {
			return fmt.Errorf("append to %q: %w", name, err)
		}
	}
	if e.dryRun {
		return nil
	}

	matched, err := e.store.AppendToField(ctx, name, field, values...)
	if err != nil {
		return fmt.Errorf("append %s to %q: %w", field, name, err)
	}
	if matched == 0 {
		e.stats.Missed++
		return nil
	}
	e.stats.Updated += matched
	return nil
}

// Stats returns the counters accumulated so far.
func (e *Emitter) Stats() EmitStats {
	return e.stats
}
