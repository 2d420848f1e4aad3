// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package search runs a compiled query (internal/query/compile) against the
// database and reports the total alongside the page, per §4.E. It is a thin
// executor deliberately kept outside internal/core/* repositories: compile
// decides which statistics joins run, and this package just issues the two
// statements it produces.
package search

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira/booru/internal/query/compile"
)

// Page is one executed search: the row cursor for the caller to scan plus
// the total row count ignoring offset/limit.
type Page struct {
	Rows  pgx.Rows
	Total int
}

// Run executes compiled.SQL and compiled.CountSQL against pool. The caller
// is responsible for closing Rows (via Scan-to-end or an explicit Close).
func Run(ctx context.Context, pool *pgxpool.Pool, compiled *compile.Compiled) (*Page, error) {
	var total int
	if err := pool.QueryRow(ctx, compiled.CountSQL, compiled.Args[:compiled.CountArgs]...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return nil, err
	}
	return &Page{Rows: rows, Total: total}, nil
}
