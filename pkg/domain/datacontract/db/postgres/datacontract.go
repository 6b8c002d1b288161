package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/labstack/gommon/log"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/scanner"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	kdb "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db"
	kpgerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors/dberrors/postgres"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
)

type pgDataContract struct {
	logger *log.Logger
}

type Option func(*pgDataContract)

// WithLogger sets a logger. By default, a logger prefixed "datacontract" is used.
func WithLogger(logger *log.Logger) Option {
	return func(p *pgDataContract) {
		p.logger = logger
	}
}

func New(options ...Option) kdb.DataContractInterface {
	p := &pgDataContract{logger: log.New("datacontract")}
	for _, o := range options {
		o(p)
	}
	return p
}

var _ kdb.DataContractInterface = &pgDataContract{}

const (
	opCreate   = "create"
	opRetrieve = "retrieve"
	opUpdate   = "update"
	opDelete   = "delete"
)

func (p *pgDataContract) Create(ctx context.Context, session kpool.BeginTx, dc *domain.DataContract) (*domain.DataContract, error) {
	ctx = context.WithoutCancel(ctx)

	row, err := ToRow(dc)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return nil, p.failed(opCreate, dc.Id, err)
	}
	defer tx.Rollback(ctx)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	rows, err := scanner.New[Row]().QueryAll(
		ctx, tx,
		fmt.Sprintf(
			`insert into "%s" (%s) values (%s) returning %s`,
			Table, columnList, strings.Join(placeholders, ", "), columnList,
		),
		row.values()...,
	)
	if err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
			p.logger.Warnf("data contract %s is present already", dc.Id)
			return nil, kpgerr.Duplicated{Table: Table, Identity: dc.Id, Cause: err}
		}
		return nil, p.failed(opCreate, dc.Id, err)
	}

	created, err := p.single(rows, dc.Id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, p.failed(opCreate, dc.Id, err)
	}
	p.logger.Infof("data contract %s is created", dc.Id)
	return created, nil
}

func (p *pgDataContract) Get(ctx context.Context, session kpool.BeginTx, id string) (*domain.DataContract, error) {
	ctx = context.WithoutCancel(ctx)

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return nil, p.failed(opRetrieve, id, err)
	}
	defer tx.Rollback(ctx)

	rows, err := scanner.New[Row]().QueryAll(
		ctx, tx,
		fmt.Sprintf(`select %s from "%s" where "id" = $1`, columnList, Table),
		id,
	)
	if err != nil {
		return nil, p.failed(opRetrieve, id, err)
	}
	return p.single(rows, id)
}

func (p *pgDataContract) Update(ctx context.Context, session kpool.BeginTx, id string, patch *domain.DataContractPatch) (*domain.DataContract, error) {
	ctx = context.WithoutCancel(ctx)

	if len(patch.Ignored) != 0 {
		p.logger.Warnf(
			"data contract %s: ignoring attributes not in the table: %s",
			id, strings.Join(patch.Ignored, ", "),
		)
	}

	sets := []string{}
	args := []interface{}{id}
	var convErr error
	patch.Each(func(key string, value any, null bool) {
		if key == "id" || convErr != nil {
			return
		}
		v, err := columnValue(key, value, null)
		if err != nil {
			convErr = err
			return
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(`"%s" = $%d`, key, len(args)))
	})
	if convErr != nil {
		return nil, xe.Wrap(convErr)
	}

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return nil, p.failed(opUpdate, id, err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`select %s from "%s" where "id" = $1`, columnList, Table)
	if len(sets) != 0 {
		query = fmt.Sprintf(
			`update "%s" set %s where "id" = $1 returning %s`,
			Table, strings.Join(sets, ", "), columnList,
		)
	}
	rows, err := scanner.New[Row]().QueryAll(ctx, tx, query, args...)
	if err != nil {
		return nil, p.failed(opUpdate, id, err)
	}
	updated, err := p.single(rows, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, p.failed(opUpdate, id, err)
	}
	p.logger.Infof("data contract %s is updated", id)
	return updated, nil
}

func (p *pgDataContract) Delete(ctx context.Context, session kpool.BeginTx, id string) (*domain.DataContract, error) {
	ctx = context.WithoutCancel(ctx)

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return nil, p.failed(opDelete, id, err)
	}
	defer tx.Rollback(ctx)

	rows, err := scanner.New[Row]().QueryAll(
		ctx, tx,
		fmt.Sprintf(`delete from "%s" where "id" = $1 returning %s`, Table, columnList),
		id,
	)
	if err != nil {
		return nil, p.failed(opDelete, id, err)
	}
	if len(rows) == 0 {
		p.logger.Warnf("data contract %s is not found", id)
		return nil, kpgerr.Missing{Table: Table, Identity: id}
	}

	// a deleted row is returned even if it can not be read back.
	deleted, convErr := FromRow(rows[0])
	if err := tx.Commit(ctx); err != nil {
		return nil, p.failed(opDelete, id, err)
	}
	if convErr != nil {
		p.logger.Errorf("data contract %s is deleted, but it was corrupted: %s", id, convErr)
		return nil, kpgerr.Corrupted{Table: Table, Identity: id, Cause: convErr}
	}
	p.logger.Infof("data contract %s is deleted", id)
	return deleted, nil
}

func (p *pgDataContract) List(ctx context.Context, session kpool.BeginTx) ([]*domain.DataContract, error) {
	ctx = context.WithoutCancel(ctx)

	tx, err := kpool.BeginReadCommitted(ctx, session)
	if err != nil {
		return nil, p.failed(opRetrieve, "data contracts", err)
	}
	defer tx.Rollback(ctx)

	rows, err := scanner.New[Row]().QueryAll(
		ctx, tx,
		fmt.Sprintf(`select %s from "%s" order by "id"`, columnList, Table),
	)
	if err != nil {
		return nil, p.failed(opRetrieve, "data contracts", err)
	}

	dcs := make([]*domain.DataContract, 0, len(rows))
	for _, r := range rows {
		dc, err := FromRow(r)
		if err != nil {
			p.logger.Errorf("data contract %s is corrupted: %s", r.Id, err)
			return nil, kpgerr.Corrupted{Table: Table, Identity: r.Id, Cause: err}
		}
		dcs = append(dcs, dc)
	}
	p.logger.Infof("%d data contracts are listed", len(dcs))
	return dcs, nil
}

// single converts the only row in rows.
func (p *pgDataContract) single(rows []Row, id string) (*domain.DataContract, error) {
	switch len(rows) {
	case 0:
		p.logger.Warnf("data contract %s is not found", id)
		return nil, kpgerr.Missing{Table: Table, Identity: id}
	case 1:
	default:
		return nil, kpgerr.TooMuch{Table: Table, Identity: id, Expected: 1}
	}

	dc, err := FromRow(rows[0])
	if err != nil {
		p.logger.Errorf("data contract %s is corrupted: %s", id, err)
		return nil, kpgerr.Corrupted{Table: Table, Identity: id, Cause: err}
	}
	return dc, nil
}

func (p *pgDataContract) failed(op string, target string, err error) error {
	p.logger.Errorf("failed to %s %s: %s", op, target, err)
	return kpgerr.OperationFailed{Operation: op, Cause: xe.Wrap(err)}
}
