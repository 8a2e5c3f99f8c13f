package importer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const (
	moviesList = "CRC: 0xDEADBEEF  File: movies.list\n\nMOVIES LIST\n===========\n\n" +
		"Alpha (2001)\t\t\t2001\n" +
		"Twin (1999)\t\t\t1999\n" +
		"Twin (1999)\t\t\t1999\n"

	genresList = "8: THE GENRES LIST\n==================\n\n" +
		"Alpha (2001)\t\t\tDrama\n" +
		"Twin (1999)\t\t\tHorror\n" +
		"Ghost (1950)\t\t\tComedy\n"

	taglinesList = "TAG LINES LIST\n==============\n\n" +
		"# Alpha (2001)\n\tIt begins.\n\tAgain.\n\n" +
		"# Ghost (1950)\n\tBoo.\n"

	akaList = "AKA TITLES LIST\n===============\n\n" +
		"Alpha (2001)\n   (aka Alfa (2001))\t(Italy)\n   (aka Alpha! (2001))\t(USA)\n\n" +
		"Twin (1999)\n   (aka Zwilling (1999))\t(Germany)\n"

	plotList = "PLOT SUMMARIES LIST\n===================\n\n" +
		"-------------------------------------------------------------------------------\n" +
		"MV: Alpha (2001)\n\nPL: A story\nPL: told twice.\n\nBY: Ann\n\n" +
		"PL: Short version.\n\nBY: Bob\n"

	triviaList = "FILM TRIVIA\n===========\n\n" +
		"# Alpha (2001)\n" +
		"- Shot in\n  one week.\n\n" +
		"- Cast of two.\n\n"
)

func writeList(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".list"), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeGzipList(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name+".list.gz"))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	zw := pgzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close %s: %v", name, err)
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeList(t, dir, "movies", moviesList)
	writeGzipList(t, dir, "genres", genresList)
	writeList(t, dir, "taglines", taglinesList)
	writeList(t, dir, "aka-titles", akaList)
	writeList(t, dir, "plot", plotList)
	writeList(t, dir, "trivia", triviaList)
	return dir
}

func testConfig(dir string) Config {
	return Config{
		PlaintextDir:    dir,
		Reset:           true,
		ContinueOnError: true,
		ProgressEvery:   1,
		Separator:       "=",
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(fixtureDir(t)))

	err := p.Run(context.Background(), []string{"year", "genres", "taglines", "aka-titles", "plot", "trivia"})
	require.NoError(t, err)
	assert.False(t, p.HasErrors())

	alpha := store.byName("Alpha (2001)")
	require.Len(t, alpha, 1)
	assert.Equal(t, "2001", alpha[0].Year)
	assert.Equal(t, []string{"Drama"}, alpha[0].Genre)
	assert.Equal(t, []string{"\tIt begins.", "\tAgain."}, alpha[0].Taglines)
	assert.Equal(t, [][]string{{"   (aka Alfa (2001))\t(Italy)", "   (aka Alpha! (2001))\t(USA)"}}, alpha[0].AkaTitles)
	assert.Equal(t, []domain.PlotSummary{
		{Text: "A story told twice.", By: "Ann"},
		{Text: "A story told twice. Short version.", By: "Bob"},
	}, alpha[0].Plot)
	assert.Equal(t, []string{"Shot in one week.", "Cast of two."}, alpha[0].Trivia)

	twins := store.byName("Twin (1999)")
	require.Len(t, twins, 2)
	for _, m := range twins {
		assert.Equal(t, []string{"Horror"}, m.Genre)
		assert.Equal(t, [][]string{{"   (aka Zwilling (1999))\t(Germany)"}}, m.AkaTitles)
	}

	assert.Empty(t, store.byName("Ghost (1950)"))

	results := p.Results()
	assert.Equal(t, PassResult{Records: 3, Inserted: 3}, withoutDuration(results["year"]))
	assert.Equal(t, PassResult{Records: 3, Updated: 3, Missed: 1}, withoutDuration(results["genres"]))
	assert.Equal(t, PassResult{Records: 2, Updated: 1, Missed: 1}, withoutDuration(results["taglines"]))
	assert.Equal(t, PassResult{Records: 2, Updated: 3}, withoutDuration(results["aka-titles"]))
}

func withoutDuration(r PassResult) PassResult {
	r.Duration = 0
	return r
}

func TestPipeline_ResetRunsFirst(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(fixtureDir(t)))

	require.NoError(t, p.Run(context.Background(), []string{"year"}))
	require.GreaterOrEqual(t, len(store.callLog), 3)
	assert.Equal(t, []string{"DropAll", "EnsureNameIndex", "InsertMovie"}, store.callLog[:3])
}

func TestPipeline_YearPassIsIdempotentWithReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	cfg := testConfig(fixtureDir(t))

	require.NoError(t, NewPipeline(testLogger(), store, cfg).Run(ctx, []string{"year"}))
	first, err := store.Count(ctx)
	require.NoError(t, err)

	require.NoError(t, NewPipeline(testLogger(), store, cfg).Run(ctx, []string{"year"}))
	second, err := store.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
}

func TestPipeline_DryRunNoStoreWrites(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	cfg := testConfig(fixtureDir(t))
	cfg.DryRun = true
	p := NewPipeline(testLogger(), store, cfg)

	require.NoError(t, p.Run(context.Background(), []string{"year", "genres"}))
	assert.Empty(t, store.callLog)
	assert.Equal(t, 3, p.Results()["year"].Records)
	assert.Equal(t, 3, p.Results()["genres"].Records)
}

func TestPipeline_MissingListIsIsolated(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(fixtureDir(t)))

	err := p.Run(context.Background(), []string{"year", "countries", "genres"})
	require.NoError(t, err)
	assert.True(t, p.HasErrors())

	results := p.Results()
	require.ErrorIs(t, results["countries"].Err, domain.ErrNotFound)
	require.NoError(t, results["genres"].Err)
	assert.Equal(t, 3, results["genres"].Updated)
}

func TestPipeline_StopOnErrorWhenConfigured(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	cfg := testConfig(fixtureDir(t))
	cfg.ContinueOnError = false
	p := NewPipeline(testLogger(), store, cfg)

	err := p.Run(context.Background(), []string{"year", "countries", "aka-titles"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	results := p.Results()
	require.ErrorIs(t, results["countries"].Err, domain.ErrNotFound)
	_, ran := results["aka-titles"]
	assert.False(t, ran)
}

func TestPipeline_YearFailureAborts(t *testing.T) {
	t.Parallel()
	dir := fixtureDir(t)
	writeList(t, dir, "movies", "no guard here\n")
	p := NewPipeline(testLogger(), newMemStore(), testConfig(dir))

	err := p.Run(context.Background(), []string{"year", "genres"})
	require.ErrorIs(t, err, domain.ErrParse)
	_, ran := p.Results()["genres"]
	assert.False(t, ran)
}

func TestPipeline_TruncatedTriviaFailsPass(t *testing.T) {
	t.Parallel()
	dir := fixtureDir(t)
	writeList(t, dir, "trivia", "FILM TRIVIA\n===========\n\n# Alpha (2001)\n- never\n  ends")
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(dir))

	require.NoError(t, p.Run(context.Background(), []string{"year", "trivia"}))
	var perr *domain.ParseError
	require.ErrorAs(t, p.Results()["trivia"].Err, &perr)
	assert.Equal(t, "trivia.list", perr.Source)
}

func TestPipeline_StoreErrorFailsPass(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(fixtureDir(t)))
	require.NoError(t, p.Run(context.Background(), []string{"year"}))

	boom := errors.New("connection reset")
	store.appendErr = boom
	cfg := testConfig(fixtureDir(t))
	cfg.Reset = false
	p = NewPipeline(testLogger(), store, cfg)

	require.NoError(t, p.Run(context.Background(), []string{"genres"}))
	require.ErrorIs(t, p.Results()["genres"].Err, boom)
}

func TestPipeline_UnknownPass(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := NewPipeline(testLogger(), store, testConfig(t.TempDir()))

	err := p.Run(context.Background(), []string{"year", "soundtracks"})
	require.ErrorContains(t, err, `unknown pass "soundtracks"`)
	assert.Empty(t, store.callLog)
}

func TestPipeline_PassFilterKeepsCanonicalOrder(t *testing.T) {
	t.Parallel()
	p := NewPipeline(testLogger(), newMemStore(), Config{})

	passes, err := p.selectPasses([]string{"trivia", "genres", "year"})
	require.NoError(t, err)

	var names []string
	for _, ps := range passes {
		names = append(names, ps.Name)
	}
	assert.Equal(t, []string{"year", "genres", "trivia"}, names)
}

func TestPipeline_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(testLogger(), newMemStore(), Config{PlaintextDir: fixtureDir(t), ContinueOnError: true})

	err := p.Run(ctx, []string{"year", "genres"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPasses_Registry(t *testing.T) {
	t.Parallel()
	passes := Passes()
	require.Len(t, passes, 14)
	assert.Equal(t, YearPass, passes[0].Name)
	assert.Equal(t, "movies", passes[0].List)

	seen := make(map[string]bool)
	for _, ps := range passes[1:] {
		assert.False(t, seen[ps.Name], "duplicate pass %s", ps.Name)
		seen[ps.Name] = true
		assert.True(t, ps.Field.IsValid(), "pass %s has no field", ps.Name)
	}

	assert.True(t, passes[3].Guard.Match("8: THE GENRES LIST"))
	assert.False(t, passes[3].Guard.Match("8: THE GENRES LIST (continued)"))
}
