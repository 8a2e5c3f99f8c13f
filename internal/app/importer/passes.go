package importer

import (
	"context"
	"iter"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
	"github.com/heartmarshall/mmovies-importer/internal/app/importer/lists"
	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// Pass binds one plaintext list to the state machine that reads it and the
// emitter calls its records turn into.
type Pass struct {
	Name  string // pass identifier used by the --pass filter
	List  string // file stem under the plaintext directory
	Guard linestream.Guard
	Field domain.Field // zero for the year pass

	run func(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error
}

// YearPass is the name of the pass that creates documents. Every other pass
// only appends to what it created.
const YearPass = "year"

// Passes returns all passes in canonical execution order.
func Passes() []Pass {
	return []Pass{
		{Name: YearPass, List: "movies", Guard: linestream.MustCompileGuard("MOVIES LIST"), run: runYears},
		{Name: "taglines", List: "taglines", Guard: linestream.MustCompileGuard("TAG LINES LIST"), Field: domain.FieldTaglines, run: runTaglines},
		tabbedPass("production-companies", "PRODUCTION COMPANIES LIST", domain.FieldCompanyName),
		tabbedPass("genres", `\d+: THE GENRES LIST`, domain.FieldGenre),
		tabbedPass("language", "LANGUAGE LIST", domain.FieldLanguage),
		tabbedPass("countries", "COUNTRIES LIST", domain.FieldCountry),
		{Name: "aka-titles", List: "aka-titles", Guard: linestream.MustCompileGuard("AKA TITLES LIST"), Field: domain.FieldAkaTitles, run: runAkaTitles},
		{Name: "plot", List: "plot", Guard: linestream.MustCompileGuard("PLOT SUMMARIES LIST"), Field: domain.FieldPlot, run: runPlots},
		bulletPass("trivia", "FILM TRIVIA", domain.FieldTrivia),
		tabbedPass("color-info", "COLOR INFO LIST", domain.FieldColorInfo),
		bulletPass("goofs", "GOOFS LIST", domain.FieldGoofs),
		tabbedPass("distributors", "DISTRIBUTORS LIST", domain.FieldDistributors),
		tabbedPass("miscellaneous-companies", "MISCELLANEOUS COMPANY LIST", domain.FieldMiscCompanies),
		tabbedPass("locations", "LOCATIONS LIST", domain.FieldLocations),
	}
}

func tabbedPass(name, guard string, field domain.Field) Pass {
	return Pass{
		Name:  name,
		List:  name,
		Guard: linestream.MustCompileGuard(guard),
		Field: field,
		run: func(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
			return drive(ctx, lists.Tabbed(lines), tick, func(p lists.Pair) error {
				return em.Append(ctx, p.Movie, field, p.Value)
			})
		},
	}
}

func bulletPass(name, guard string, field domain.Field) Pass {
	return Pass{
		Name:  name,
		List:  name,
		Guard: linestream.MustCompileGuard(guard),
		Field: field,
		run: func(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
			return drive(ctx, lists.Bullets(lines), tick, func(t lists.Trivia) error {
				return em.Append(ctx, t.Movie, field, t.Text)
			})
		},
	}
}

func runYears(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
	return drive(ctx, lists.Years(lines), tick, func(y lists.Year) error {
		return em.Create(ctx, y.Movie, y.Year)
	})
}

func runTaglines(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
	return drive(ctx, lists.TaglineBlocks(lines), tick, func(t lists.Taglines) error {
		values := make([]any, len(t.Lines))
		for i, l := range t.Lines {
			values[i] = l
		}
		return em.Append(ctx, t.Movie, domain.FieldTaglines, values...)
	})
}

func runAkaTitles(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
	return drive(ctx, lists.AkaBlocks(lines), tick, func(a lists.AkaTitles) error {
		return em.Append(ctx, a.Movie, domain.FieldAkaTitles, a.Titles)
	})
}

func runPlots(ctx context.Context, lines *linestream.Lines, em *Emitter, tick func()) error {
	return drive(ctx, lists.Plots(lines), tick, func(p lists.Plot) error {
		return em.Append(ctx, p.Movie, domain.FieldPlot, domain.PlotSummary{Text: p.Text, By: p.By})
	})
}

// drive pulls records from seq and hands each to apply until the sequence
// ends, a record fails, or ctx is canceled.
func drive[T any](ctx context.Context, seq iter.Seq2[T, error], tick func(), apply func(T) error) error {
	for rec, err := range seq {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(rec); err != nil {
			return err
		}
		tick()
	}
	return nil
}
