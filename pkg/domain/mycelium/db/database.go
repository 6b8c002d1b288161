package db

import (
	"context"

	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	kdc "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db"
)

// Database owns the connection pool, and hands repositories and sessions out.
//
// It is constructed once when the process starts, and closed when the process stops.
type Database interface {
	DataContract() kdc.DataContractInterface

	// Acquire borrows a session from the pool. Callers should Release it.
	Acquire(context.Context) (kpool.Conn, error)

	// Probe sends a trivial query to check the database is reachable.
	Probe(context.Context) error

	// Bootstrap creates tables which are not present.
	Bootstrap(context.Context) error

	Close() error
}
