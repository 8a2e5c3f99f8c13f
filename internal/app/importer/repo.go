// Package importer loads plaintext catalog lists into a movie store, one pass
// per list, and defines the store contract those passes write through.
package importer

import (
	"context"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// MovieStore is the document store contract consumed by the importer.
// Implemented by postgres movie.Repo and badgerstore.Repo.
type MovieStore interface {
	// InsertMovie stores a new document. Duplicate names are allowed.
	InsertMovie(ctx context.Context, movie domain.Movie) error

	// AppendToField appends values to the array field of every document named
	// name and returns how many documents matched. Zero matches is not an error.
	AppendToField(ctx context.Context, name string, field domain.Field, values ...any) (int, error)

	// DropAll removes every document.
	DropAll(ctx context.Context) error

	// EnsureNameIndex creates the non-unique lookup index on name.
	EnsureNameIndex(ctx context.Context) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
