package errors

import "errors"

var (
	// requested item is not found.
	ErrMissing = errors.New("missing")

	// more items are found than expected.
	ErrTooMuch = errors.New("too much")

	// item with the same identity is already present.
	ErrConflict = errors.New("conflict")

	// document does not satisfy the data contract schema.
	ErrInvalidContract = errors.New("invalid data contract")

	// request body is not a JSON document at all.
	ErrMalformed = errors.New("malformed document")

	// storage operation failed for a reason other than missing or conflict.
	ErrOperationFailed = errors.New("operation failed")

	// stored item can not be read back as a valid item.
	ErrCorrupted = errors.New("corrupted")
)
