// Package fake provides scripted stand-ins for pool.Pool, pool.Conn and pool.Tx.
//
// Fakes do not talk to any database.
// They answer with values set in their `Next...` fields and record what they are asked.
package fake

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgx/v4"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
)

// ErrUnscripted is returned when a fake is asked more than it has been told.
var ErrUnscripted = errors.New("[FAKE] no more scripted results")

type Pool struct {
	NextAcquire struct {
		Conn *Conn
		Err  error
	}
	NextBeginTx struct {
		Tx  *Tx
		Err error
	}
	NextPing error

	// answers for queries sent to the pool directly.
	Results []Result
	Queries []Query

	mux      sync.Mutex
	Acquired []*Conn
	Closed   bool
}

var _ kpool.Pool = &Pool{}

func (p *Pool) Acquire(ctx context.Context) (kpool.Conn, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if err := p.NextAcquire.Err; err != nil {
		return nil, err
	}
	conn := p.NextAcquire.Conn
	if conn == nil {
		conn = &Conn{}
	}
	p.Acquired = append(p.Acquired, conn)
	return conn, nil
}

func (p *Pool) Begin(ctx context.Context) (kpool.Tx, error) {
	return p.BeginTx(ctx, pgx.TxOptions{})
}

func (p *Pool) BeginTx(ctx context.Context, _ pgx.TxOptions) (kpool.Tx, error) {
	if err := p.NextBeginTx.Err; err != nil {
		return nil, err
	}
	if p.NextBeginTx.Tx == nil {
		p.NextBeginTx.Tx = &Tx{}
	}
	return p.NextBeginTx.Tx, nil
}

func (p *Pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return exec(answer(&p.Results, &p.Queries, sql, args))
}

func (p *Pool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return query(answer(&p.Results, &p.Queries, sql, args))
}

func (p *Pool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	p.mux.Lock()
	defer p.mux.Unlock()
	return queryRow(answer(&p.Results, &p.Queries, sql, args))
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.NextPing
}

func (p *Pool) Close() {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.Closed = true
}

// Conn answers queries sent outside of transactions with Results in order.
type Conn struct {
	NextBeginTx struct {
		Tx  *Tx
		Err error
	}
	NextPing error

	Results []Result
	Queries []Query

	// options passed to BeginTx, in order.
	TxOptions []pgx.TxOptions

	// how many times Release is called.
	Released int
}

var _ kpool.Conn = &Conn{}

func (c *Conn) Begin(ctx context.Context) (kpool.Tx, error) {
	return c.BeginTx(ctx, pgx.TxOptions{})
}

func (c *Conn) BeginTx(ctx context.Context, opts pgx.TxOptions) (kpool.Tx, error) {
	c.TxOptions = append(c.TxOptions, opts)
	if err := c.NextBeginTx.Err; err != nil {
		return nil, err
	}
	if c.NextBeginTx.Tx == nil {
		c.NextBeginTx.Tx = &Tx{}
	}
	return c.NextBeginTx.Tx, nil
}

func (c *Conn) Release() {
	c.Released += 1
}

func (c *Conn) Ping(ctx context.Context) error {
	return c.NextPing
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return exec(answer(&c.Results, &c.Queries, sql, args))
}

func (c *Conn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return query(answer(&c.Results, &c.Queries, sql, args))
}

func (c *Conn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return queryRow(answer(&c.Results, &c.Queries, sql, args))
}

// Query which a Tx has been asked.
type Query struct {
	SQL  string
	Args []interface{}
}

// Result is an answer for a Query, Exec or QueryRow.
//
// When Err is not nil, the request fails with it.
// Otherwise, Rows is the answer (nil is treated as empty).
type Result struct {
	Rows *Rows
	Err  error
}

// Tx answers its requests with Results in order.
type Tx struct {
	Results    []Result
	NextCommit error

	Queries    []Query
	Committed  bool
	RolledBack bool
}

var _ kpool.Tx = &Tx{}

// answer records a query and pops the first of results.
func answer(results *[]Result, queries *[]Query, sql string, args []interface{}) Result {
	*queries = append(*queries, Query{SQL: sql, Args: args})
	if len(*results) == 0 {
		return Result{Err: ErrUnscripted}
	}
	r := (*results)[0]
	*results = (*results)[1:]
	if r.Rows == nil && r.Err == nil {
		r.Rows = &Rows{}
	}
	return r
}

func exec(r Result) (pgconn.CommandTag, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Rows.CommandTag(), nil
}

func query(r Result) (pgx.Rows, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Rows, nil
}

func queryRow(r Result) pgx.Row {
	if r.Err != nil {
		return &row{err: r.Err}
	}
	return &row{rows: r.Rows}
}

func (tx *Tx) Begin(ctx context.Context) (kpool.Tx, error) {
	return nil, ErrUnscripted
}

// Commit closes the transaction, unless NextCommit is set.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.Committed || tx.RolledBack {
		return pgx.ErrTxClosed
	}
	if tx.NextCommit != nil {
		tx.RolledBack = true
		return tx.NextCommit
	}
	tx.Committed = true
	return nil
}

// Rollback after Commit does nothing, as pgx.Tx does.
func (tx *Tx) Rollback(ctx context.Context) error {
	if tx.Committed || tx.RolledBack {
		return pgx.ErrTxClosed
	}
	tx.RolledBack = true
	return nil
}

func (tx *Tx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return exec(answer(&tx.Results, &tx.Queries, sql, args))
}

func (tx *Tx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return query(answer(&tx.Results, &tx.Queries, sql, args))
}

func (tx *Tx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return queryRow(answer(&tx.Results, &tx.Queries, sql, args))
}

// Rows is a result set with named columns.
//
// When Failure is set, it is reported by Err() after all Data are read.
type Rows struct {
	Columns []string
	Data    [][]interface{}
	Failure error

	cursor int
	closed bool
}

var _ pgx.Rows = &Rows{}

func (r *Rows) Close() {
	r.closed = true
}

func (r *Rows) Err() error {
	return r.Failure
}

func (r *Rows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag(fmt.Sprintf("SELECT %d", len(r.Data)))
}

func (r *Rows) FieldDescriptions() []pgproto3.FieldDescription {
	fds := make([]pgproto3.FieldDescription, len(r.Columns))
	for i, c := range r.Columns {
		fds[i] = pgproto3.FieldDescription{Name: []byte(c)}
	}
	return fds
}

func (r *Rows) Next() bool {
	if r.closed || len(r.Data) <= r.cursor {
		r.closed = true
		return false
	}
	r.cursor += 1
	return true
}

func (r *Rows) Scan(dest ...interface{}) error {
	if r.cursor == 0 {
		return errors.New("[FAKE] Scan called before Next")
	}
	values := r.Data[r.cursor-1]
	if len(values) != len(dest) {
		return fmt.Errorf("[FAKE] %d values for %d destinations", len(values), len(dest))
	}
	for i := range dest {
		if err := assign(dest[i], values[i]); err != nil {
			return fmt.Errorf("[FAKE] column %d: %w", i, err)
		}
	}
	return nil
}

func (r *Rows) Values() ([]interface{}, error) {
	if r.cursor == 0 {
		return nil, errors.New("[FAKE] Values called before Next")
	}
	return r.Data[r.cursor-1], nil
}

func (r *Rows) RawValues() [][]byte {
	return nil
}

func assign(dest interface{}, value interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination %T is not a pointer", dest)
	}
	target := dv.Elem()
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("%T can not be assigned to %s", value, target.Type())
	}
	target.Set(v)
	return nil
}

type row struct {
	rows *Rows
	err  error
}

func (r *row) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()
	if !r.rows.Next() {
		return pgx.ErrNoRows
	}
	return r.rows.Scan(dest...)
}
