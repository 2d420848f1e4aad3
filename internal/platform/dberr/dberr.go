// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yomira/booru/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// action is a short operation tag used only in the Internal-error cause chain
// for server-side log correlation; it is never sent to clients.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.UniqueViolation(constraintField(pgErr))
		case pgerrcode.ForeignKeyViolation:
			return apperr.ForeignKeyViolation(pgErr.ConstraintName)
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return apperr.RetryableConflict(err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperr.ValidationError("the request violates a database constraint: " + pgErr.ConstraintName)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// constraintField names the offending field of a unique violation. It returns
// the constraint name whole, as Postgres reports it, or "value" when the
// name is empty.
func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "value"
}
