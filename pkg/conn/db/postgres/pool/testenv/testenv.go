// Package testenv provides a pool to a live PostgreSQL for tests.
//
// The database is given by the environment variable MYCELIUM_TEST_DATABASE_URL.
// When it is not set, tests using this package are skipped.
package testenv

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/schema"
)

const EnvDatabaseURL = "MYCELIUM_TEST_DATABASE_URL"

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	t.Cleanup(func() {
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

type pgNoClean struct {
	pool *pgxpool.Pool
}

func (p *pgNoClean) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	return kpool.Wrap(p.pool)
}

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pgConnOptions struct {
	DoNotCleanup bool
}

type PgConnOption func(*pgConnOptions) *pgConnOptions

func WithDoNotCleanup() PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.DoNotCleanup = true
		return o
	}
}

// NewPoolBroaker returns a PoolBroaker, or skips t when no database is given.
//
// Tables are created if they are not present.
func NewPoolBroaker(ctx context.Context, t *testing.T, options ...PgConnOption) PoolBroaker {
	t.Helper()

	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	opts := &pgConnOptions{}
	for _, o := range options {
		opts = o(opts)
	}

	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := schema.Bootstrap(ctx, kpool.Wrap(pool)); err != nil {
		t.Fatal(err)
	}

	if opts.DoNotCleanup {
		return &pgNoClean{pool: pool}
	}
	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	if _, err := p.Exec(ctx, `truncate "data_contracts"`); err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
	}
}
