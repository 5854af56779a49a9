package storage

import "errors"

var (
	// ErrInvalidScope indicates a scope name that is neither global nor workspace.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrUnsupportedValue indicates a value that cannot be stored as a string.
	ErrUnsupportedValue = errors.New("unsupported value")
)
