package mock

import (
	"context"
	"errors"
	"testing"

	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	kdb "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

type DataContractInterface struct {
	t *testing.T

	Impl struct {
		Create func(context.Context, kpool.BeginTx, *domain.DataContract) (*domain.DataContract, error)
		Get    func(context.Context, kpool.BeginTx, string) (*domain.DataContract, error)
		Update func(context.Context, kpool.BeginTx, string, *domain.DataContractPatch) (*domain.DataContract, error)
		Delete func(context.Context, kpool.BeginTx, string) (*domain.DataContract, error)
		List   func(context.Context, kpool.BeginTx) ([]*domain.DataContract, error)
	}
	Calls struct {
		Create CallLog[*domain.DataContract]
		Get    CallLog[string]
		Update CallLog[struct {
			Id    string
			Patch *domain.DataContractPatch
		}]
		Delete CallLog[string]
		List   CallLog[struct{}]
	}
}

func New(t *testing.T) *DataContractInterface {
	return &DataContractInterface{t: t}
}

var _ kdb.DataContractInterface = &DataContractInterface{}

func (m *DataContractInterface) Create(ctx context.Context, session kpool.BeginTx, dc *domain.DataContract) (*domain.DataContract, error) {
	m.t.Helper()
	m.Calls.Create = append(m.Calls.Create, dc)
	if m.Impl.Create == nil {
		m.t.Fatal("[MOCK] Create is not implemented")
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Create(ctx, session, dc)
}

func (m *DataContractInterface) Get(ctx context.Context, session kpool.BeginTx, id string) (*domain.DataContract, error) {
	m.t.Helper()
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get == nil {
		m.t.Fatal("[MOCK] Get is not implemented")
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Get(ctx, session, id)
}

func (m *DataContractInterface) Update(ctx context.Context, session kpool.BeginTx, id string, patch *domain.DataContractPatch) (*domain.DataContract, error) {
	m.t.Helper()
	m.Calls.Update = append(m.Calls.Update, struct {
		Id    string
		Patch *domain.DataContractPatch
	}{Id: id, Patch: patch})
	if m.Impl.Update == nil {
		m.t.Fatal("[MOCK] Update is not implemented")
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Update(ctx, session, id, patch)
}

func (m *DataContractInterface) Delete(ctx context.Context, session kpool.BeginTx, id string) (*domain.DataContract, error) {
	m.t.Helper()
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete == nil {
		m.t.Fatal("[MOCK] Delete is not implemented")
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Delete(ctx, session, id)
}

func (m *DataContractInterface) List(ctx context.Context, session kpool.BeginTx) ([]*domain.DataContract, error) {
	m.t.Helper()
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List == nil {
		m.t.Fatal("[MOCK] List is not implemented")
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.List(ctx, session)
}
