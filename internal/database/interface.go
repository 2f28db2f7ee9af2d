package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXDB is an interface that both pgxpool.Pool and pgx.Tx implement.
// Repositories accept it so they can run against the pool, inside a
// ledger-service transaction, or inside a test transaction.
type PGXDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a PGXDB that can also open a transaction. pgxpool.Pool implements it
// directly; pgx.Tx implements it via savepoint-backed nested transactions,
// which is what lets the ledger service run under test transactions.
type DB interface {
	PGXDB
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Ensure types implement the interfaces at compile time.
var (
	_ PGXDB = (*pgxpool.Pool)(nil)
	_ PGXDB = (pgx.Tx)(nil)
	_ DB    = (*pgxpool.Pool)(nil)
	_ DB    = (pgx.Tx)(nil)
)
