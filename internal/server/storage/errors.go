package storage

import "errors"

// Common storage errors
var (
	// ErrNotebookNotFound indicates that notebook was not found in storage
	ErrNotebookNotFound = errors.New("notebook not found")

	// ErrCellNotFound indicates that cell was not found in the notebook
	ErrCellNotFound = errors.New("cell not found")

	// ErrInvalidCell indicates that cell input could not be stored
	ErrInvalidCell = errors.New("invalid cell")
)
