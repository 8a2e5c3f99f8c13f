// Package movie implements the movie document store on PostgreSQL. Each
// document is a row with its name and year in columns and the accumulated
// array fields in a jsonb document.
package movie

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/encoding/json"

	postgres "github.com/heartmarshall/mmovies-importer/internal/adapter/postgres"
	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

const (
	table     = "movies"
	nameIndex = "movies_name_idx"
)

// Repo provides movie document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new movie repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// InsertMovie stores movie as a new row. Rows with the same name coexist.
func (r *Repo) InsertMovie(ctx context.Context, movie domain.Movie) error {
	doc, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("encode movie %q: %w", movie.Name, err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "name", "year", "doc").
		Values(movie.ID, movie.Name, movie.Year, string(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "insert movie", movie.Name)
	}
	return nil
}

// AppendToField appends values, in order, to the jsonb array under field on
// every row named name. It returns the number of rows updated.
func (r *Repo) AppendToField(ctx context.Context, name string, field domain.Field, values ...any) (int, error) {
	if !field.IsValid() {
		return 0, fmt.Errorf("append to %q: %q: %w", name, field, domain.ErrUnknownField)
	}
	for _, v := range values {
		if err := domain.CheckValue(field, v); err != nil {
			return 0, fmt.Errorf("append to %q: %w", name, err)
		}
	}
	stored := make([]any, len(values))
	for i, v := range values {
		stored[i] = domain.Normalize(field, v)
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return 0, fmt.Errorf("encode %s values: %w", field, err)
	}

	key := field.String()
	sql, args, err := postgres.Builder().
		Update(table).
		Set("doc", squirrel.Expr(
			"jsonb_set(doc, ARRAY[?]::text[], COALESCE(doc -> ?::text, '[]'::jsonb) || ?::jsonb, true)",
			key, key, string(payload),
		)).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build append: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "append "+key, name)
	}
	return int(tag.RowsAffected()), nil
}

// DropAll removes every movie together with the name index, so the next
// EnsureNameIndex builds it over fresh data.
func (r *Repo) DropAll(ctx context.Context) error {
	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)
		if _, err := q.Exec(txCtx, "DROP INDEX IF EXISTS "+nameIndex); err != nil {
			return fmt.Errorf("drop name index: %w", err)
		}
		if _, err := q.Exec(txCtx, "TRUNCATE "+table+" RESTART IDENTITY"); err != nil {
			return fmt.Errorf("truncate movies: %w", err)
		}
		return nil
	})
}

// EnsureNameIndex creates the non-unique btree index on name.
func (r *Repo) EnsureNameIndex(ctx context.Context) error {
	sql := "CREATE INDEX IF NOT EXISTS " + nameIndex + " ON " + table + " (name)"
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql); err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

// FindByName returns every movie named name in insertion order.
func (r *Repo) FindByName(ctx context.Context, name string) ([]domain.Movie, error) {
	sql, args, err := postgres.Builder().
		Select("id", "name", "year", "doc").
		From(table).
		Where(squirrel.Eq{"name": name}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "find movie", name)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var (
			id       uuid.UUID
			nm, year string
			doc      []byte
		)
		if err := rows.Scan(&id, &nm, &year, &doc); err != nil {
			return nil, postgres.MapError(err, "scan movie", name)
		}
		var m domain.Movie
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decode movie %q: %w", name, err)
		}
		m.ID, m.Name, m.Year = id, nm, year
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "find movie", name)
	}
	return movies, nil
}

// Count returns the number of stored movies.
func (r *Repo) Count(ctx context.Context) (int, error) {
	sql, args, err := postgres.Builder().Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "count movies", "")
	}
	return n, nil
}
