// Package schema creates tables used by mycelium.
//
// There are no migrations. Tables are created when they are not present,
// and left as they are otherwise.
package schema

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
)

//go:embed schema.sql
var DDL string

// Bootstrap creates tables if they are not present.
func Bootstrap(ctx context.Context, session kpool.BeginTx) error {
	ctx = context.WithoutCancel(ctx)

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, DDL); err != nil {
		return xe.Wrap(err)
	}
	return xe.Wrap(tx.Commit(ctx))
}

// Ready tells whether tables are present.
func Ready(ctx context.Context, conn kpool.Queryer) (bool, error) {
	var one int
	err := conn.QueryRow(ctx, `select 1 from "data_contracts" limit 1`).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, nil
	}
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
		return false, nil
	}
	return false, xe.Wrap(err)
}
