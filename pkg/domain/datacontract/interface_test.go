package datacontract_test

import (
	"context"
	"errors"
	"testing"

	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool/fake"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db/mock"
	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
	kpgerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors/dberrors/postgres"
)

func orders() *domain.DataContract {
	return &domain.DataContract{
		DataContractSpecification: "1.0.0",
		Id:                        "urn:datacontract:checkout:orders-latest",
		Info:                      &domain.Info{Title: "Orders", Version: "1.0.0"},
	}
}

func TestService_ReleasesSession(t *testing.T) {
	type when struct {
		call func(context.Context, datacontract.Interface) error
		repo func(*mock.DataContractInterface)
	}
	type then struct {
		err error
	}

	failure := errors.New("fake failure")

	for name, testcase := range map[string]struct {
		when when
		then then
	}{
		"Create succeeds": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.Create(ctx, orders())
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.Create = func(_ context.Context, _ kpool.BeginTx, dc *domain.DataContract) (*domain.DataContract, error) {
						return dc, nil
					}
				},
			},
		},
		"Create fails": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.Create(ctx, orders())
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.Create = func(context.Context, kpool.BeginTx, *domain.DataContract) (*domain.DataContract, error) {
						return nil, kpgerr.Duplicated{Table: "data_contracts", Identity: "x", Cause: failure}
					}
				},
			},
			then: then{err: domerr.ErrConflict},
		},
		"Get misses": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.Get(ctx, "missing")
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.Get = func(context.Context, kpool.BeginTx, string) (*domain.DataContract, error) {
						return nil, kpgerr.Missing{Table: "data_contracts", Identity: "missing"}
					}
				},
			},
			then: then{err: domerr.ErrMissing},
		},
		"Update succeeds": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.Update(ctx, "x", &domain.DataContractPatch{})
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.Update = func(context.Context, kpool.BeginTx, string, *domain.DataContractPatch) (*domain.DataContract, error) {
						return orders(), nil
					}
				},
			},
		},
		"Delete fails": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.Delete(ctx, "x")
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.Delete = func(context.Context, kpool.BeginTx, string) (*domain.DataContract, error) {
						return nil, failure
					}
				},
			},
			then: then{err: failure},
		},
		"List succeeds": {
			when: when{
				call: func(ctx context.Context, s datacontract.Interface) error {
					_, err := s.List(ctx)
					return err
				},
				repo: func(m *mock.DataContractInterface) {
					m.Impl.List = func(context.Context, kpool.BeginTx) ([]*domain.DataContract, error) {
						return []*domain.DataContract{orders()}, nil
					}
				},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			conn := &fake.Conn{}
			pool := &fake.Pool{}
			pool.NextAcquire.Conn = conn

			repo := mock.New(t)
			testcase.when.repo(repo)

			err := testcase.when.call(context.Background(), datacontract.New(pool, repo))
			if testcase.then.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, testcase.then.err) {
				t.Errorf("unexpected error: %v (expected: %v)", err, testcase.then.err)
			}

			if len(pool.Acquired) != 1 {
				t.Errorf("session is acquired %d times", len(pool.Acquired))
			}
			if conn.Released != 1 {
				t.Errorf("session is released %d times", conn.Released)
			}
		})
	}

	t.Run("when a session can not be acquired, the store is not called", func(t *testing.T) {
		pool := &fake.Pool{}
		pool.NextAcquire.Err = errors.New("connection refused")
		repo := mock.New(t)

		_, err := datacontract.New(pool, repo).Get(context.Background(), "x")
		if !errors.Is(err, domerr.ErrOperationFailed) {
			t.Errorf("unexpected error: %v", err)
		}
		if repo.Calls.Get.Times() != 0 {
			t.Errorf("store is called")
		}
	})
}
