package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pqErr.Constraint)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

// wrap maps err and prefixes it with the failed operation. Sentinels pass through unprefixed.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	mapped := mapError(err)
	if errors.Is(mapped, repository.ErrNotFound) || errors.Is(mapped, repository.ErrConflict) {
		return mapped
	}
	return fmt.Errorf("failed to %s: %w", op, mapped)
}

// requireRow turns a zero-row write into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
