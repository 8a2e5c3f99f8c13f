package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

// PassResult holds the outcome of a single pass.
type PassResult struct {
	Records  int
	Inserted int
	Updated  int
	Missed   int
	Duration time.Duration
	Err      error
}

// Pipeline runs the import passes in canonical order against one store.
type Pipeline struct {
	log     *slog.Logger
	store   MovieStore
	cfg     Config
	passes  []Pass
	results map[string]PassResult
}

// NewPipeline creates a new Pipeline over the full pass registry.
func NewPipeline(log *slog.Logger, store MovieStore, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		store:   store,
		cfg:     cfg,
		passes:  Passes(),
		results: make(map[string]PassResult),
	}
}

// Results returns pass results after Run completes.
func (p *Pipeline) Results() map[string]PassResult {
	return p.results
}

// HasErrors returns true if any pass failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If names is non-empty, only the listed passes
// run, still in canonical order. A failed year pass stops the run since no
// later pass can match anything; other failures stop it only when
// ContinueOnError is off.
func (p *Pipeline) Run(ctx context.Context, names []string) error {
	toRun, err := p.selectPasses(names)
	if err != nil {
		return err
	}

	if p.cfg.Reset && !p.cfg.DryRun {
		if err := p.Reset(ctx); err != nil {
			return err
		}
	}

	for _, pass := range toRun {
		start := time.Now()
		p.log.Info("starting pass", slog.String("pass", pass.Name), slog.String("list", pass.List))

		result := p.runPass(ctx, pass)
		result.Duration = time.Since(start)
		p.results[pass.Name] = result

		if result.Err != nil {
			p.log.Warn("pass failed",
				slog.String("pass", pass.Name),
				slog.String("error", result.Err.Error()),
				slog.Int("records", result.Records),
				slog.Duration("duration", result.Duration),
			)
			if pass.Name == YearPass || !p.cfg.ContinueOnError || errors.Is(result.Err, context.Canceled) {
				return fmt.Errorf("pass %s: %w", pass.Name, result.Err)
			}
			continue
		}

		p.log.Info("pass completed",
			slog.String("pass", pass.Name),
			slog.Int("records", result.Records),
			slog.Int("inserted", result.Inserted),
			slog.Int("updated", result.Updated),
			slog.Int("missed", result.Missed),
			slog.Duration("duration", result.Duration),
		)
	}

	attrs := []any{slog.Int("passes_run", len(toRun)), slog.Bool("dry_run", p.cfg.DryRun)}
	if !p.cfg.DryRun {
		total, err := p.store.Count(ctx)
		if err != nil {
			return fmt.Errorf("count movies: %w", err)
		}
		attrs = append(attrs, slog.Int("movies", total))
	}
	p.log.Info("pipeline completed", attrs...)
	return nil
}

// Reset drops every document and recreates the name index.
func (p *Pipeline) Reset(ctx context.Context) error {
	if err := p.store.DropAll(ctx); err != nil {
		return fmt.Errorf("drop movies: %w", err)
	}
	if err := p.store.EnsureNameIndex(ctx); err != nil {
		return fmt.Errorf("ensure name index: %w", err)
	}
	p.log.Info("store reset")
	return nil
}

func (p *Pipeline) selectPasses(names []string) ([]Pass, error) {
	if len(names) == 0 {
		return p.passes, nil
	}
	for _, n := range names {
		if !slices.ContainsFunc(p.passes, func(ps Pass) bool { return ps.Name == n }) {
			return nil, fmt.Errorf("unknown pass %q", n)
		}
	}
	var filtered []Pass
	for _, ps := range p.passes {
		if slices.Contains(names, ps.Name) {
			filtered = append(filtered, ps)
		}
	}
	return filtered, nil
}

func (p *Pipeline) runPass(ctx context.Context, pass Pass) PassResult {
	lines, err := linestream.Open(ctx, p.cfg.PlaintextDir, pass.List)
	if err != nil {
		return PassResult{Err: err}
	}
	defer lines.Close()

	if err := linestream.Seek(lines, pass.Guard, p.cfg.SeparatorByte()); err != nil {
		return PassResult{Err: err}
	}

	em := NewEmitter(p.store, p.cfg.DryRun)
	var records int
	tick := func() {
		records++
		if p.cfg.ProgressEvery > 0 && records%p.cfg.ProgressEvery == 0 {
			p.log.Debug("progress", slog.String("pass", pass.Name), slog.Int("records", records))
		}
	}

	err = pass.run(ctx, lines, em, tick)
	stats := em.Stats()
	return PassResult{
		Records:  records,
		Inserted: stats.Inserted,
		Updated:  stats.Updated,
		Missed:   stats.Missed,
		Err:      err,
	}
}
