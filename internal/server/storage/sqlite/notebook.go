package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nteract/mythic-rtc/internal/server/storage"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertNotebook returns the stored notebook for filePath or creates it from content.
// Existing notebooks are returned as is: a joining client converges on the stored copy.
func (s *Storage) UpsertNotebook(ctx context.Context, filePath string, content api.NotebookContentInput) (nb *api.NotebookDef, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	notebookID, err := notebookIDByPath(ctx, tx, filePath)
	switch {
	case err == nil:
		nb, err = loadNotebook(ctx, tx, notebookID)
		if err != nil {
			return nil, false, err
		}
		if err = tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("failed to commit: %w", err)
		}
		return nb, false, nil
	case !errors.Is(err, storage.ErrNotebookNotFound):
		return nil, false, err
	}

	metadata := content.Metadata
	if metadata == nil {
		metadata = []api.MetadataEntry{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	notebookID = s.newID()
	now := time.Now().Unix()
	query := `
		INSERT INTO notebooks (id, file_path, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err = tx.ExecContext(ctx, query, notebookID, filePath, string(metadataJSON), now, now); err != nil {
		return nil, false, fmt.Errorf("failed to insert notebook: %w", err)
	}

	for i, cell := range content.Cells {
		var def api.CellDef
		def, err = cell.Def(s.newID())
		if err != nil {
			return nil, false, fmt.Errorf("%w: cell %d: %v", storage.ErrInvalidCell, i, err)
		}
		if err = insertCellRow(ctx, tx, notebookID, i, def, now); err != nil {
			return nil, false, err
		}
	}

	nb, err = loadNotebook(ctx, tx, notebookID)
	if err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit: %w", err)
	}
	return nb, true, nil
}

// GetNotebook retrieves notebook by file path
// Returns ErrNotebookNotFound if notebook doesn't exist
func (s *Storage) GetNotebook(ctx context.Context, filePath string) (*api.NotebookDef, error) {
	notebookID, err := notebookIDByPath(ctx, s.db, filePath)
	if err != nil {
		return nil, err
	}
	return loadNotebook(ctx, s.db, notebookID)
}

// GetNotebookID resolves notebook id by file path
// Returns ErrNotebookNotFound if notebook doesn't exist
func (s *Storage) GetNotebookID(ctx context.Context, filePath string) (string, error) {
	return notebookIDByPath(ctx, s.db, filePath)
}

// GetCell retrieves a cell. Empty notebookID matches any notebook.
// Returns ErrCellNotFound if cell doesn't exist
func (s *Storage) GetCell(ctx context.Context, notebookID, cellID string) (*api.CellDef, error) {
	query := `
		SELECT id, content
		FROM cells
		WHERE id = ? AND (? = '' OR notebook_id = ?)
	`

	var id, content string
	err := s.db.QueryRowContext(ctx, query, cellID, notebookID, notebookID).Scan(&id, &content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCellNotFound
		}
		return nil, fmt.Errorf("failed to get cell: %w", err)
	}

	def, err := decodeCell(id, content)
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// InsertCell inserts cell at insertAt clamped to [0, len]
// Returns the stored cell and its position
func (s *Storage) InsertCell(ctx context.Context, notebookID string, insertAt int, cell api.CellInput) (def *api.CellDef, pos int, err error) {
	stored, err := cell.Def(s.newID())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", storage.ErrInvalidCell, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	count, err := cellCount(ctx, tx, notebookID)
	if err != nil {
		return nil, 0, err
	}
	pos = max(0, min(insertAt, count))

	query := `UPDATE cells SET position = position + 1 WHERE notebook_id = ? AND position >= ?`
	if _, err = tx.ExecContext(ctx, query, notebookID, pos); err != nil {
		return nil, 0, fmt.Errorf("failed to shift cells: %w", err)
	}

	now := time.Now().Unix()
	if err = insertCellRow(ctx, tx, notebookID, pos, stored, now); err != nil {
		return nil, 0, err
	}
	if err = touchNotebook(ctx, tx, notebookID, now); err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit: %w", err)
	}
	return &stored, pos, nil
}

// DeleteCell removes a cell and returns its former position
// Returns ErrCellNotFound if cell doesn't exist
func (s *Storage) DeleteCell(ctx context.Context, notebookID, cellID string) (pos int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT position FROM cells WHERE id = ? AND notebook_id = ?`
	if err = tx.QueryRowContext(ctx, query, cellID, notebookID).Scan(&pos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrCellNotFound
		}
		return 0, fmt.Errorf("failed to get cell position: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cells WHERE id = ?`, cellID); err != nil {
		return 0, fmt.Errorf("failed to delete cell: %w", err)
	}

	query = `UPDATE cells SET position = position - 1 WHERE notebook_id = ? AND position > ?`
	if _, err = tx.ExecContext(ctx, query, notebookID, pos); err != nil {
		return 0, fmt.Errorf("failed to shift cells: %w", err)
	}
	if err = touchNotebook(ctx, tx, notebookID, time.Now().Unix()); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return pos, nil
}

// SetCellSource replaces the full source text of a cell
// Returns ErrCellNotFound if cell doesn't exist
func (s *Storage) SetCellSource(ctx context.Context, notebookID, cellID, source string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var content string
	query := `SELECT content FROM cells WHERE id = ? AND notebook_id = ?`
	if err = tx.QueryRowContext(ctx, query, cellID, notebookID).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrCellNotFound
		}
		return fmt.Errorf("failed to get cell: %w", err)
	}

	def, err := decodeCell(cellID, content)
	if err != nil {
		return err
	}
	def.Source = source

	updated, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal cell: %w", err)
	}

	now := time.Now().Unix()
	query = `UPDATE cells SET content = ?, updated_at = ? WHERE id = ?`
	if _, err = tx.ExecContext(ctx, query, string(updated), now, cellID); err != nil {
		return fmt.Errorf("failed to update cell: %w", err)
	}
	if err = touchNotebook(ctx, tx, notebookID, now); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func notebookIDByPath(ctx context.Context, q querier, filePath string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM notebooks WHERE file_path = ?`, filePath).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotebookNotFound
		}
		return "", fmt.Errorf("failed to get notebook: %w", err)
	}
	return id, nil
}

func cellCount(ctx context.Context, q querier, notebookID string) (int, error) {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM notebooks WHERE id = ?`, notebookID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check notebook: %w", err)
	}
	if exists == 0 {
		return 0, storage.ErrNotebookNotFound
	}

	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM cells WHERE notebook_id = ?`, notebookID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cells: %w", err)
	}
	return count, nil
}

func loadNotebook(ctx context.Context, q querier, notebookID string) (nb *api.NotebookDef, err error) {
	var metadata string
	err = q.QueryRowContext(ctx, `SELECT metadata FROM notebooks WHERE id = ?`, notebookID).Scan(&metadata)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotebookNotFound
		}
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}

	nb = &api.NotebookDef{
		ID:    notebookID,
		Cells: api.CellConnectionDef{Nodes: []api.CellDef{}},
	}
	if err := json.Unmarshal([]byte(metadata), &nb.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode notebook metadata: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT id, content FROM cells WHERE notebook_id = ? ORDER BY position ASC`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		def, err := decodeCell(id, content)
		if err != nil {
			return nil, err
		}
		nb.Cells.Nodes = append(nb.Cells.Nodes, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return nb, nil
}

func insertCellRow(ctx context.Context, q querier, notebookID string, pos int, def api.CellDef, now int64) error {
	content, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal cell: %w", err)
	}

	query := `
		INSERT INTO cells (id, notebook_id, position, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := q.ExecContext(ctx, query, def.ID, notebookID, pos, string(content), now); err != nil {
		return fmt.Errorf("failed to insert cell: %w", err)
	}
	return nil
}

func touchNotebook(ctx context.Context, q querier, notebookID string, now int64) error {
	if _, err := q.ExecContext(ctx, `UPDATE notebooks SET updated_at = ? WHERE id = ?`, now, notebookID); err != nil {
		return fmt.Errorf("failed to update notebook: %w", err)
	}
	return nil
}

func decodeCell(id, content string) (api.CellDef, error) {
	var def api.CellDef
	if err := json.Unmarshal([]byte(content), &def); err != nil {
		return api.CellDef{}, fmt.Errorf("failed to decode cell %s: %w", id, err)
	}
	def.ID = id
	return def, nil
}
