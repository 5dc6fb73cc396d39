// Package middleware decides which applied edits must be propagated to the
// collaboration backend and which are echoes of remote edits.
package middleware

import (
	"log/slog"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/client/store"
)

// FollowUp возвращает действие совместной работы, которое следует за
// уже примененным действием, или nil. Единственный признак эха: Origin.
func FollowUp(view store.View, action actions.Action) actions.Action {
	switch a := action.(type) {
	case actions.FetchContentFulfilled:
		if a.Origin.IsRemote() {
			return nil
		}
		return actions.JoinSession{FilePath: a.FilePath, Notebook: view.Notebook()}

	case actions.CreateCellAbove:
		return insertFollowUp(view, a.NewID, a.Origin, a.RemoteCellID)

	case actions.CreateCellBelow:
		return insertFollowUp(view, a.NewID, a.Origin, a.RemoteCellID)

	case actions.DeleteCell:
		if a.ID == "" {
			return nil
		}
		if a.Origin.IsRemote() {
			return actions.DeleteCellFromMap{LocalID: a.ID}
		}
		return actions.RecordDeleteCell{ID: a.ID}

	case actions.SetInCell:
		if a.Origin.IsRemote() || a.ID == "" || !actions.IsSourcePath(a.Path) {
			return nil
		}
		source, ok := a.Value.(string)
		if !ok {
			return nil
		}
		return actions.RecordCellContent{ID: a.ID, Value: source}
	}
	return nil
}

// insertFollowUp берет позицию новой ячейки из порядка после вставки.
// Reducer ставит ячейку в начало или конец, если якорь не найден,
// поэтому позиция по newID верна в обоих случаях.
func insertFollowUp(view store.View, newID string, origin actions.Origin, remoteID string) actions.Action {
	insertAt := -1
	for i, id := range view.CellOrder() {
		if id == newID {
			insertAt = i
			break
		}
	}
	if insertAt < 0 {
		return nil
	}

	if origin.IsRemote() {
		if remoteID == "" {
			return nil
		}
		return actions.UpdateCellMap{LocalID: newID, RemoteID: remoteID}
	}

	cell, ok := view.Cell(newID)
	if !ok {
		return nil
	}
	return actions.RecordInsertCell{ID: newID, InsertAt: insertAt, Cell: cell}
}

// Recording оборачивает FollowUp в middleware store
func Recording(logger *slog.Logger) store.Middleware {
	return func(s *store.Store, action actions.Action) {
		next := FollowUp(s, action)
		if next == nil {
			return
		}
		logger.Debug("Collaboration follow-up", "action", action.Type(), "follow_up", next.Type())
		s.Dispatch(next)
	}
}
