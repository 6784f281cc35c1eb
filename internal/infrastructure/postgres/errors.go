package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const (
	uniqueViolation      = "23505"
	invalidTextRepresent = "22P02"
)

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case invalidTextRepresent:
			// a malformed uuid can never match a row
			return repository.ErrNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}
