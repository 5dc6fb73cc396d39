package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/client/store"
	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/internal/nbformat"
)

// ErrJoinTimeout returned when the backend does not answer the join in time
var ErrJoinTimeout = errors.New("timed out joining collaboration session")

// fileSync связывает store с файлом на диске.
// base: содержимое файла после последнего чтения или записи;
// правки файла считаются относительно него, чтобы не откатывать удаленные правки.
type fileSync struct {
	modTime time.Time
	store   *store.Store
	base    *models.Notebook
	logger  *slog.Logger
	joined  chan actions.Action
	path    string
	size    int64
	dirty   atomic.Bool
}

func newFileSync(path string, st *store.Store, logger *slog.Logger) *fileSync {
	return &fileSync{
		path:   path,
		store:  st,
		logger: logger,
		joined: make(chan actions.Action, 1),
	}
}

// observe store middleware: ловит результат join и отмечает удаленные правки
func (f *fileSync) observe(_ *store.Store, action actions.Action) {
	switch a := action.(type) {
	case actions.JoinSessionSucceeded, actions.JoinSessionFailed:
		select {
		case f.joined <- a:
		default:
		}
	default:
		if isRemoteEdit(action) {
			f.dirty.Store(true)
		}
	}
}

func isRemoteEdit(action actions.Action) bool {
	switch a := action.(type) {
	case actions.FetchContentFulfilled:
		return a.Origin.IsRemote()
	case actions.CreateCellAbove:
		return a.Origin.IsRemote()
	case actions.CreateCellBelow:
		return a.Origin.IsRemote()
	case actions.DeleteCell:
		return a.Origin.IsRemote()
	case actions.SetInCell:
		return a.Origin.IsRemote()
	case actions.MoveCell:
		return a.Origin.IsRemote()
	}
	return false
}

func (f *fileSync) waitJoined(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ErrJoinTimeout
	case result := <-f.joined:
		if failed, ok := result.(actions.JoinSessionFailed); ok {
			return "", fmt.Errorf("failed to join collaboration session: %w", failed.Err)
		}
		return result.(actions.JoinSessionSucceeded).NotebookID, nil
	}
}

// sync применяет правки файла к store и записывает файл, если были удаленные правки
func (f *fileSync) sync() error {
	changed, err := f.fileChanged()
	if err != nil {
		return err
	}

	if changed {
		next, err := nbformat.ReadFile(f.path)
		if err != nil {
			return err
		}
		edits := diffNotebook(f.base, next)
		f.logger.Debug("File changed", "edits", len(edits))
		for _, a := range edits {
			f.store.Dispatch(a)
		}
		// файл перезаписывается: ячейки без id получили их при чтении
		f.dirty.Store(true)
	}

	if f.dirty.Swap(false) {
		return f.save()
	}
	return nil
}

func (f *fileSync) fileChanged() (bool, error) {
	info, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat notebook: %w", err)
	}
	return !info.ModTime().Equal(f.modTime) || info.Size() != f.size, nil
}

// save записывает текущее состояние store в файл
func (f *fileSync) save() error {
	nb := f.store.Notebook()
	if err := nbformat.WriteFile(f.path, nb); err != nil {
		return err
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("failed to stat notebook: %w", err)
	}
	f.base = nb
	f.modTime = info.ModTime()
	f.size = info.Size()
	return nil
}

// diffNotebook переводит разницу между base и next в действия store:
// удаления, вставки (после соседа сверху в next) и замены текста.
// Перестановки не передаются: backend не записывает перемещения.
func diffNotebook(base, next *models.Notebook) []actions.Action {
	var edits []actions.Action

	for _, id := range base.CellOrder {
		if _, ok := next.Cell(id); !ok {
			edits = append(edits, actions.DeleteCell{ID: id, Origin: actions.OriginLocal})
		}
	}

	for i, id := range next.CellOrder {
		cell, _ := next.Cell(id)
		old, existed := base.Cell(id)
		switch {
		case !existed && i == 0:
			edits = append(edits, actions.CreateCellAbove{Cell: cell, NewID: id, Origin: actions.OriginLocal})
		case !existed:
			edits = append(edits, actions.CreateCellBelow{Cell: cell, ID: next.CellOrder[i-1], NewID: id, Origin: actions.OriginLocal})
		case old.Source != cell.Source:
			edits = append(edits, actions.SetInCell{
				ID:     id,
				Path:   []string{"source"},
				Value:  cell.Source,
				Origin: actions.OriginLocal,
			})
		}
	}

	return edits
}
