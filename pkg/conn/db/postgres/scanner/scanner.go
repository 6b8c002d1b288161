package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// type-safe scanner for pgx.Rows
//
// # example
//
//	type Entry struct {
//		Id   string `sql:"id"`
//		Body pgtype.JSONB `sql:"body"`
//	}
//
//	func ListEntries(ctx context.Context, tx pool.Tx) ([]Entry, error) {
//		return scanner.New[Entry]().QueryAll(ctx, tx, `select "id", "body" from "entry"`)
//	}
//
// # mapping rule
//
// columns are mapped into
//
//  1. field with tag `sql:"column_name"`
//  2. or, field named as same as the column name
//  3. or, field which has a name in CamelCase version of column name ("data_contract" -> "DataContract").
//
// Each column in a result set should be mapped to a field.
// Otherwise, ScanAll fails.
type Scanner[T any] interface {
	// scan all rows in pgx.Rows and convert to []T
	ScanAll(pgx.Rows) ([]T, error)

	// scan all rows in response of query.
	QueryAll(context.Context, Queryer, string, ...interface{}) ([]T, error)
}

type scanner[T any] struct {
	byColumn map[string][]int
}

// New creates a Scanner for struct type T.
//
// It panics if T is not a struct.
func New[T any]() Scanner[T] {
	typ := reflect.TypeOf(*new(T))
	if typ == nil || typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanner: %T is not a struct", *new(T)))
	}

	byTag := map[string][]int{}
	byName := map[string][]int{}
	for _, f := range reflect.VisibleFields(typ) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, ok := f.Tag.Lookup("sql"); ok && tag != "" && tag != "-" {
			byTag[tag] = f.Index
		}
		byName[f.Name] = f.Index
	}

	return &scanner[T]{byColumn: merged(byTag, byName)}
}

// merged resolves columns by tags first, then by field names.
func merged(byTag map[string][]int, byName map[string][]int) map[string][]int {
	ret := map[string][]int{}
	for k, v := range byName {
		ret[k] = v
	}
	for k, v := range byTag {
		ret[k] = v
	}
	return ret
}

func camel(s string) string {
	b := &strings.Builder{}
	for _, ss := range strings.Split(s, "_") {
		if len(ss) == 0 {
			b.WriteString("_")
			continue
		}
		b.WriteString(strings.ToUpper(ss[0:1]))
		b.WriteString(ss[1:])
	}
	return b.String()
}

func (s *scanner[T]) fieldOf(column string) ([]int, bool) {
	if idx, ok := s.byColumn[column]; ok {
		return idx, true
	}
	idx, ok := s.byColumn[camel(column)]
	return idx, ok
}

func (s *scanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	columns := rows.FieldDescriptions()
	indice := make([][]int, 0, len(columns))
	for _, fd := range columns {
		col := string(fd.Name)
		idx, ok := s.fieldOf(col)
		if !ok {
			return nil, fmt.Errorf(`field for column "%s" is not found in type "%T"`, col, *new(T))
		}
		indice = append(indice, idx)
	}

	ret := []T{}
	for rows.Next() {
		elem := new(T)
		re := reflect.ValueOf(elem).Elem()

		dest := make([]interface{}, len(indice))
		for nth, idx := range indice {
			dest[nth] = re.FieldByIndex(idx).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ret = append(ret, *elem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *scanner[T]) QueryAll(ctx context.Context, conn Queryer, q string, params ...interface{}) ([]T, error) {
	rows, err := conn.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.ScanAll(rows)
}
