package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool/fake"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/schema"
	"github.com/mycelium-catalog/mycelium/pkg/domain/mycelium/db/postgres"
)

func one() fake.Result {
	return fake.Result{Rows: &fake.Rows{Columns: []string{"?column?"}, Data: [][]interface{}{{1}}}}
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("it succeeds when select 1 is answered", func(t *testing.T) {
		conn := &fake.Conn{Results: []fake.Result{one()}}
		pool := &fake.Pool{}
		pool.NextAcquire.Conn = conn

		testee := postgres.NewWithPool(pool)
		if err := testee.Probe(ctx); err != nil {
			t.Fatal(err)
		}
		if len(conn.Queries) != 1 || conn.Queries[0].SQL != "select 1" {
			t.Errorf("unexpected queries: %+v", conn.Queries)
		}
		if conn.Released != 1 {
			t.Errorf("conn is released %d times", conn.Released)
		}
	})

	t.Run("it fails when the query fails", func(t *testing.T) {
		expectedErr := errors.New("connection reset")
		conn := &fake.Conn{Results: []fake.Result{{Err: expectedErr}}}
		pool := &fake.Pool{}
		pool.NextAcquire.Conn = conn

		testee := postgres.NewWithPool(pool)
		if err := testee.Probe(ctx); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if conn.Released != 1 {
			t.Errorf("conn is released %d times", conn.Released)
		}
	})

	t.Run("it fails when a session is not acquired", func(t *testing.T) {
		expectedErr := errors.New("too many connections")
		pool := &fake.Pool{}
		pool.NextAcquire.Err = expectedErr

		testee := postgres.NewWithPool(pool)
		if err := testee.Probe(ctx); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("it creates tables when they are missing", func(t *testing.T) {
		tx := &fake.Tx{Results: []fake.Result{{}}}
		pool := &fake.Pool{
			Results: []fake.Result{{Err: &pgconn.PgError{Code: pgerrcode.UndefinedTable}}},
		}
		pool.NextBeginTx.Tx = tx

		testee := postgres.NewWithPool(pool)
		if err := testee.Bootstrap(ctx); err != nil {
			t.Fatal(err)
		}
		if len(tx.Queries) != 1 || tx.Queries[0].SQL != schema.DDL {
			t.Errorf("unexpected queries: %+v", tx.Queries)
		}
		if !tx.Committed {
			t.Error("not committed")
		}
	})

	t.Run("it does nothing when tables are present", func(t *testing.T) {
		tx := &fake.Tx{}
		pool := &fake.Pool{Results: []fake.Result{one()}}
		pool.NextBeginTx.Tx = tx

		testee := postgres.NewWithPool(pool)
		if err := testee.Bootstrap(ctx); err != nil {
			t.Fatal(err)
		}
		if len(tx.Queries) != 0 {
			t.Errorf("unexpected queries: %+v", tx.Queries)
		}
	})

	t.Run("it fails when tables can not be checked", func(t *testing.T) {
		pool := &fake.Pool{Results: []fake.Result{{Err: errors.New("permission denied")}}}

		testee := postgres.NewWithPool(pool)
		if err := testee.Bootstrap(ctx); err == nil {
			t.Error("expected error, but not")
		}
	})
}

func TestClose(t *testing.T) {
	pool := &fake.Pool{}
	testee := postgres.NewWithPool(pool)
	if err := testee.Close(); err != nil {
		t.Fatal(err)
	}
	if !pool.Closed {
		t.Error("pool is not closed")
	}
}
