package db

import (
	"context"

	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
)

// DataContractInterface is a store of data contracts.
//
// Each method runs in its own transaction begun on the session,
// and the transaction is finished before the method returns.
type DataContractInterface interface {
	// Create stores a new data contract.
	//
	// Args
	//
	// - context.Context
	//
	// - kpool.BeginTx: session to the database
	//
	// - *domain.DataContract: valid data contract to be stored
	//
	// Returns
	//
	// - *domain.DataContract: data contract as stored
	//
	// - error: ErrConflict when the id is taken already.
	// ErrOperationFailed for other failures of the database.
	Create(context.Context, kpool.BeginTx, *domain.DataContract) (*domain.DataContract, error)

	// Get retrieves a data contract by id.
	//
	// Returns
	//
	// - *domain.DataContract
	//
	// - error: ErrMissing when there are no such data contract.
	// ErrCorrupted when the stored one is not valid.
	Get(context.Context, kpool.BeginTx, string) (*domain.DataContract, error)

	// Update overwrites members of a stored data contract with present members of the patch.
	//
	// Members absent in the patch are kept as they are.
	// The id of the data contract is never changed.
	//
	// Returns
	//
	// - *domain.DataContract: data contract after update
	//
	// - error: ErrMissing when there are no such data contract.
	Update(context.Context, kpool.BeginTx, string, *domain.DataContractPatch) (*domain.DataContract, error)

	// Delete removes a data contract.
	//
	// Returns
	//
	// - *domain.DataContract: removed data contract
	//
	// - error: ErrMissing when there are no such data contract.
	Delete(context.Context, kpool.BeginTx, string) (*domain.DataContract, error)

	// List retrieves all data contracts, ordered by id.
	List(context.Context, kpool.BeginTx) ([]*domain.DataContract, error)
}
