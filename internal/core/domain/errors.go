package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Dataset Errors.

	// ErrSchema indicates the input table does not have the required columns.
	// Structural violations are fatal; no partial load is attempted.
	ErrSchema = errors.New("schema violation")

	// ErrInvalidRecord indicates a row holds a value that cannot be coerced,
	// such as a non-integer presence or detail.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNoDataset indicates no table has been loaded yet.
	ErrNoDataset = errors.New("no dataset loaded")
)
