package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	inErrors "github.com/Alturino/bagstore/internal/errors"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Translate maps driver errors onto the shared sentinel errors so handlers can
// pick a status code. Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", inErrors.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %w", inErrors.ErrAlreadyExist, err)
		case codeForeignKeyViolation:
			if strings.HasPrefix(pgErr.Message, "update or delete") {
				return fmt.Errorf("%w: %w", inErrors.ErrReferenced, err)
			}
			return fmt.Errorf("%w: %w", inErrors.ErrNotFound, err)
		}
	}
	return err
}
