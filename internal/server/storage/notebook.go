package storage

import (
	"context"

	"github.com/nteract/mythic-rtc/pkg/api"
)

//go:generate moq -out notebook_mock.go . NotebookStorage

// NotebookStorage defines interface for notebook persistence.
// Cell order is positional: positions of a notebook are always 0..n-1.
type NotebookStorage interface {
	// UpsertNotebook returns the notebook stored for filePath. If there is none,
	// it is created from content and every cell gets a new id.
	// created reports whether the notebook was created by this call.
	UpsertNotebook(ctx context.Context, filePath string, content api.NotebookContentInput) (nb *api.NotebookDef, created bool, err error)

	// GetNotebook retrieves notebook by file path
	// Returns ErrNotebookNotFound if notebook doesn't exist
	GetNotebook(ctx context.Context, filePath string) (*api.NotebookDef, error)

	// GetNotebookID resolves notebook id by file path
	// Returns ErrNotebookNotFound if notebook doesn't exist
	GetNotebookID(ctx context.Context, filePath string) (string, error)

	// GetCell retrieves a cell of the notebook
	// Returns ErrCellNotFound if cell doesn't exist
	GetCell(ctx context.Context, notebookID, cellID string) (*api.CellDef, error)

	// InsertCell inserts a new cell at insertAt (clamped to [0, len]) and
	// returns the stored cell and its actual position
	InsertCell(ctx context.Context, notebookID string, insertAt int, cell api.CellInput) (*api.CellDef, int, error)

	// DeleteCell removes a cell and returns its former position
	// Returns ErrCellNotFound if cell doesn't exist
	DeleteCell(ctx context.Context, notebookID, cellID string) (int, error)

	// SetCellSource replaces the full source text of a cell
	// Returns ErrCellNotFound if cell doesn't exist
	SetCellSource(ctx context.Context, notebookID, cellID, source string) error
}
