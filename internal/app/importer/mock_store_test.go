package importer

import (
	"context"
	"sync"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// memStore is an in-memory MovieStore with the same match semantics as the
// real adapters.
type memStore struct {
	mu sync.Mutex

	movies []domain.Movie

	insertErr error
	appendErr error
	dropErr   error

	callLog []string
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) logCall(name string) {
	s.callLog = append(s.callLog, name)
}

func (s *memStore) InsertMovie(_ context.Context, movie domain.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logCall("InsertMovie")
	if s.insertErr != nil {
		return s.insertErr
	}
	s.movies = append(s.movies, movie)
	return nil
}

func (s *memStore) AppendToField(_ context.Context, name string, field domain.Field, values ...any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logCall("AppendToField")
	if s.appendErr != nil {
		return 0, s.appendErr
	}
	matched := 0
	for i := range s.movies {
		if s.movies[i].Name != name {
			continue
		}
		for _, v := range values {
			if err := s.movies[i].Append(field, v); err != nil {
				return matched, err
			}
		}
		matched++
	}
	return matched, nil
}

func (s *memStore) DropAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logCall("DropAll")
	if s.dropErr != nil {
		return s.dropErr
	}
	s.movies = nil
	return nil
}

func (s *memStore) EnsureNameIndex(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logCall("EnsureNameIndex")
	return nil
}

func (s *memStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies), nil
}

func (s *memStore) byName(name string) []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Movie
	for _, m := range s.movies {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}
