// Package badgerstore implements the movie document store on an embedded
// Badger database.
//
// Documents live under "movie/<name>\x00<seq>" where seq is a big-endian
// counter from a Badger sequence, so a prefix scan on the name returns the
// duplicates of that name in insertion order. The key layout is the name
// index; an LRU cache remembers the keys of recently appended names.
package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/segmentio/encoding/json"

	"github.com/heartmarshall/mmovies-importer/internal/config"
	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

var (
	moviePrefix = []byte("movie/")
	seqKey      = []byte("meta/seq/movie")
)

const seqBandwidth = 1000

// Repo provides movie document persistence backed by Badger.
type Repo struct {
	db    *badger.DB
	seq   *badger.Sequence
	cache *lru.Cache[string, [][]byte]
	log   *slog.Logger
}

// Open opens (or creates) the store described by cfg.
func Open(cfg config.BadgerConfig, log *slog.Logger) (*Repo, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithLogger(slogLogger{log: log.With(slog.String("component", "badger"))})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Dir, err)
	}

	seq, err := db.GetSequence(seqKey, seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("badger sequence: %w", err)
	}

	size := cfg.LookupCacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, [][]byte](size)
	if err != nil {
		_ = seq.Release()
		_ = db.Close()
		return nil, fmt.Errorf("lookup cache: %w", err)
	}

	return &Repo{db: db, seq: seq, cache: cache, log: log}, nil
}

// Close releases the sequence lease and closes the database.
func (r *Repo) Close() error {
	return errors.Join(r.seq.Release(), r.db.Close())
}

func namePrefix(name string) []byte {
	k := make([]byte, 0, len(moviePrefix)+len(name)+1)
	k = append(k, moviePrefix...)
	k = append(k, name...)
	return append(k, 0)
}

func movieKey(name string, seq uint64) []byte {
	return binary.BigEndian.AppendUint64(namePrefix(name), seq)
}

// InsertMovie stores movie under a fresh key. Documents with the same name
// coexist.
func (r *Repo) InsertMovie(ctx context.Context, movie domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := r.seq.Next()
	if err != nil {
		return fmt.Errorf("insert movie %q: next sequence: %w", movie.Name, err)
	}
	doc, err := encode(movie)
	if err != nil {
		return fmt.Errorf("encode movie %q: %w", movie.Name, err)
	}

	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(movieKey(movie.Name, n), doc)
	}); err != nil {
		return fmt.Errorf("insert movie %q: %w", movie.Name, err)
	}

	r.cache.Remove(movie.Name)
	return nil
}

// AppendToField appends values to field on every document named name and
// returns how many documents were updated.
func (r *Repo) AppendToField(ctx context.Context, name string, field domain.Field, values ...any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !field.IsValid() {
		return 0, fmt.Errorf("append to %q: %q: %w", name, field, domain.ErrUnknownField)
	}
	for _, v := range values {
		if err := domain.CheckValue(field, v); err != nil {
			return 0, fmt.Errorf("append to %q: %w", name, err)
		}
	}

	keys, err := r.keysFor(name)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			m, err := getMovie(txn, k)
			if err != nil {
				return err
			}
			for _, v := range values {
				if err := m.Append(field, v); err != nil {
					return err
				}
			}
			doc, err := encode(m)
			if err != nil {
				return fmt.Errorf("encode movie %q: %w", name, err)
			}
			if err := txn.Set(k, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("append %s to %q: %w", field, name, err)
	}
	return len(keys), nil
}

// keysFor returns the document keys of name, from the cache when possible.
func (r *Repo) keysFor(name string) ([][]byte, error) {
	if keys, ok := r.cache.Get(name); ok {
		return keys, nil
	}

	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := namePrefix(name)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}

	r.cache.Add(name, keys)
	return keys, nil
}

// record is the stored form of a movie; Movie itself omits its ID from JSON.
type record struct {
	ID uuid.UUID `json:"id"`
	domain.Movie
}

func encode(m domain.Movie) ([]byte, error) {
	return json.Marshal(record{ID: m.ID, Movie: m})
}

func decode(val []byte) (domain.Movie, error) {
	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return domain.Movie{}, err
	}
	rec.Movie.ID = rec.ID
	return rec.Movie, nil
}

func getMovie(txn *badger.Txn, key []byte) (domain.Movie, error) {
	var m domain.Movie
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return m, fmt.Errorf("key %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return m, err
	}
	err = item.Value(func(val []byte) error {
		m, err = decode(val)
		return err
	})
	if err != nil {
		return m, fmt.Errorf("decode %q: %w", key, err)
	}
	return m, nil
}

// DropAll removes every document and forgets cached lookups.
func (r *Repo) DropAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.db.DropPrefix(moviePrefix); err != nil {
		return fmt.Errorf("drop movies: %w", err)
	}
	r.cache.Purge()
	return nil
}

// EnsureNameIndex is a no-op: documents are keyed by name.
func (r *Repo) EnsureNameIndex(context.Context) error {
	r.log.Debug("name index is the key layout")
	return nil
}

// FindByName returns every movie named name in insertion order.
func (r *Repo) FindByName(ctx context.Context, name string) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var movies []domain.Movie
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := namePrefix(name)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var m domain.Movie
			if err := it.Item().Value(func(val []byte) (err error) {
				m, err = decode(val)
				return err
			}); err != nil {
				return fmt.Errorf("decode %q: %w", it.Item().Key(), err)
			}
			movies = append(movies, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find movie %q: %w", name, err)
	}
	return movies, nil
}

// Count returns the number of stored movies.
func (r *Repo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = moviePrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}
