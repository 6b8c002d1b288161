package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool/fake"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/schema"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("it runs DDL in a transaction", func(t *testing.T) {
		tx := &fake.Tx{Results: []fake.Result{{}}}
		conn := &fake.Conn{}
		conn.NextBeginTx.Tx = tx

		if err := schema.Bootstrap(ctx, conn); err != nil {
			t.Fatal(err)
		}
		if len(tx.Queries) != 1 || tx.Queries[0].SQL != schema.DDL {
			t.Errorf("unexpected queries: %+v", tx.Queries)
		}
		if !tx.Committed {
			t.Error("not committed")
		}
	})

	t.Run("it rolls back on failure", func(t *testing.T) {
		tx := &fake.Tx{Results: []fake.Result{{Err: errors.New("permission denied")}}}
		conn := &fake.Conn{}
		conn.NextBeginTx.Tx = tx

		if err := schema.Bootstrap(ctx, conn); err == nil {
			t.Fatal("expected error, but not")
		}
		if tx.Committed || !tx.RolledBack {
			t.Errorf("not rolled back: committed=%v, rolled back=%v", tx.Committed, tx.RolledBack)
		}
	})
}

func TestReady(t *testing.T) {
	ctx := context.Background()

	for name, testcase := range map[string]struct {
		when     fake.Result
		then     bool
		thenFail bool
	}{
		"table with rows": {
			when: fake.Result{Rows: &fake.Rows{Columns: []string{"?column?"}, Data: [][]interface{}{{1}}}},
			then: true,
		},
		"empty table": {
			when: fake.Result{Rows: &fake.Rows{}},
			then: true,
		},
		"no table": {
			when: fake.Result{Err: &pgconn.PgError{Code: pgerrcode.UndefinedTable}},
			then: false,
		},
		"other failure": {
			when:     fake.Result{Err: errors.New("connection lost")},
			thenFail: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			conn := &fake.Conn{Results: []fake.Result{testcase.when}}
			ready, err := schema.Ready(ctx, conn)
			if testcase.thenFail {
				if err == nil {
					t.Error("expected error, but not")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ready != testcase.then {
				t.Errorf("ready = %v, expected %v", ready, testcase.then)
			}
		})
	}
}
