package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

// pgError returns the PostgreSQL error behind err when it carries the given code.
func pgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}

	return nil, false
}

func isUniqueViolation(err error) bool {
	_, ok := pgError(err, pgerrcode.UniqueViolation)
	return ok
}

func isExclusionViolation(err error) bool {
	_, ok := pgError(err, pgerrcode.ExclusionViolation)
	return ok
}

// foreignKeyViolation reports the violated constraint name, if err is a foreign key violation.
func foreignKeyViolation(err error) (string, bool) {
	pgErr, ok := pgError(err, pgerrcode.ForeignKeyViolation)
	if !ok {
		return "", false
	}

	return pgErr.ConstraintName, true
}
