package postgres

import (
	"fmt"

	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
)

// requested row is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// requested row is found too much.
type TooMuch struct {
	Table    string
	Identity string
	Expected int
}

var _ error = TooMuch{}

func (t TooMuch) Error() string {
	return fmt.Sprintf(
		"%s is found in %s more than %d times",
		t.Identity, t.Table, t.Expected,
	)
}

func (t TooMuch) Unwrap() error {
	return domerr.ErrTooMuch
}

// row with the same key is present already.
type Duplicated struct {
	Table    string
	Identity string
	Cause    error
}

var _ error = Duplicated{}

func (d Duplicated) Error() string {
	return fmt.Sprintf("%s is already present in %s", d.Identity, d.Table)
}

func (d Duplicated) Unwrap() []error {
	return []error{domerr.ErrConflict, d.Cause}
}

// storage operation failed unexpectedly.
//
// Operation is a verb like "create", "retrieve", "update" or "delete".
type OperationFailed struct {
	Operation string
	Cause     error
}

var _ error = OperationFailed{}

func (o OperationFailed) Error() string {
	return fmt.Sprintf("failed to %s: %v", o.Operation, o.Cause)
}

func (o OperationFailed) Unwrap() []error {
	return []error{domerr.ErrOperationFailed, o.Cause}
}

// row is present but can not be converted back into a domain object.
type Corrupted struct {
	Table    string
	Identity string
	Cause    error
}

var _ error = Corrupted{}

func (c Corrupted) Error() string {
	return fmt.Sprintf("%s in %s is corrupted: %v", c.Identity, c.Table, c.Cause)
}

// Cause is not unwrapped. A corrupted row is never the fault of a request.
func (c Corrupted) Unwrap() error {
	return domerr.ErrCorrupted
}
