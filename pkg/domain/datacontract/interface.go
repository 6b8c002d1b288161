package datacontract

import (
	"context"

	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	kdb "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db"
	kpgerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors/dberrors/postgres"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
)

// Interface is the entry point of data contract operations.
//
// Errors of the store are passed through as they are.
type Interface interface {
	Create(context.Context, *domain.DataContract) (*domain.DataContract, error)
	Get(context.Context, string) (*domain.DataContract, error)
	Update(context.Context, string, *domain.DataContractPatch) (*domain.DataContract, error)
	Delete(context.Context, string) (*domain.DataContract, error)
	List(context.Context) ([]*domain.DataContract, error)
}

// SessionProvider hands out a database session for each operation.
type SessionProvider interface {
	Acquire(context.Context) (kpool.Conn, error)
}

type impl struct {
	sessions SessionProvider
	db       kdb.DataContractInterface
}

func New(sessions SessionProvider, db kdb.DataContractInterface) Interface {
	return &impl{sessions: sessions, db: db}
}

// with runs f with a session, and releases the session on return.
func with[T any](ctx context.Context, i *impl, f func(kpool.Conn) (T, error)) (T, error) {
	conn, err := i.sessions.Acquire(ctx)
	if err != nil {
		return *new(T), kpgerr.OperationFailed{Operation: "acquire session", Cause: xe.Wrap(err)}
	}
	defer conn.Release()
	return f(conn)
}

func (i *impl) Create(ctx context.Context, dc *domain.DataContract) (*domain.DataContract, error) {
	return with(ctx, i, func(conn kpool.Conn) (*domain.DataContract, error) {
		return i.db.Create(ctx, conn, dc)
	})
}

func (i *impl) Get(ctx context.Context, id string) (*domain.DataContract, error) {
	return with(ctx, i, func(conn kpool.Conn) (*domain.DataContract, error) {
		return i.db.Get(ctx, conn, id)
	})
}

func (i *impl) Update(ctx context.Context, id string, patch *domain.DataContractPatch) (*domain.DataContract, error) {
	return with(ctx, i, func(conn kpool.Conn) (*domain.DataContract, error) {
		return i.db.Update(ctx, conn, id, patch)
	})
}

func (i *impl) Delete(ctx context.Context, id string) (*domain.DataContract, error) {
	return with(ctx, i, func(conn kpool.Conn) (*domain.DataContract, error) {
		return i.db.Delete(ctx, conn, id)
	})
}

func (i *impl) List(ctx context.Context) ([]*domain.DataContract, error) {
	return with(ctx, i, func(conn kpool.Conn) ([]*domain.DataContract, error) {
		return i.db.List(ctx, conn)
	})
}
