package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors, prefixed with the
// operation and the movie name it concerned. Context errors pass through.
func MapError(err error, op, name string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %q: %w", op, name, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", op, name, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %q: %w", op, name, domain.ErrAlreadyExists)
		case "22P02", "23514": // invalid_text_representation, check_violation
			return fmt.Errorf("%s %q: %w", op, name, domain.ErrInvalidValue)
		}
	}

	return fmt.Errorf("%s %q: %w", op, name, err)
}
