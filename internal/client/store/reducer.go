package store

import (
	"fmt"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/models"
)

// reduce применяет действие к состоянию. Вызывается под s.mu.
// false означает, что вставка отклонена и состояние не изменилось.
func (s *Store) reduce(action actions.Action) bool {
	switch a := action.(type) {
	case actions.FetchContentFulfilled:
		nb := a.Notebook.Clone()
		if nb == nil {
			nb = models.NewNotebook()
		}
		s.notebook = nb
		s.filePath = a.FilePath

	case actions.CreateCellAbove:
		pos := s.notebook.IndexOf(a.ID)
		if pos < 0 {
			pos = 0
		}
		return s.insertCell(pos, a.NewID, a.Cell)

	case actions.CreateCellBelow:
		pos := s.notebook.IndexOf(a.ID)
		if pos < 0 {
			pos = s.notebook.Len()
		} else {
			pos++
		}
		return s.insertCell(pos, a.NewID, a.Cell)

	case actions.DeleteCell:
		if s.notebook.Remove(a.ID) < 0 {
			s.logger.Debug("Delete of unknown cell ignored", "cell_id", a.ID)
		}

	case actions.SetInCell:
		if err := s.setInCell(a); err != nil {
			s.logger.Warn("Failed to set cell value", "cell_id", a.ID, "path", a.Path, "error", err)
		}

	case actions.MoveCell:
		if !s.notebook.Move(a.ID, a.DestID, a.Above) {
			s.logger.Debug("Move ignored", "cell_id", a.ID, "dest_id", a.DestID)
		}
	}
	return true
}

func (s *Store) insertCell(pos int, id string, cell models.Cell) bool {
	cell = cell.Clone()
	if cell.Metadata == nil {
		cell.Metadata = models.Metadata{}
	}
	if err := s.notebook.InsertAt(pos, id, cell); err != nil {
		s.logger.Warn("Failed to insert cell", "cell_id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) setInCell(a actions.SetInCell) error {
	cell, ok := s.notebook.CellMap[a.ID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrMissingCell, a.ID)
	}
	if len(a.Path) == 0 {
		return fmt.Errorf("empty path")
	}

	switch a.Path[0] {
	case "source":
		src, ok := a.Value.(string)
		if !ok {
			return fmt.Errorf("source must be a string, got %T", a.Value)
		}
		cell.Source = src
	case "metadata":
		if len(a.Path) != 2 {
			return fmt.Errorf("metadata path must name a key")
		}
		cell.Metadata = cell.Metadata.Clone()
		if cell.Metadata == nil {
			cell.Metadata = models.Metadata{}
		}
		if err := cell.Metadata.Set(a.Path[1], a.Value); err != nil {
			return err
		}
	case "execution_count":
		switch v := a.Value.(type) {
		case nil:
			cell.ExecutionCount = nil
		case int:
			cell.ExecutionCount = &v
		default:
			return fmt.Errorf("execution_count must be an int, got %T", a.Value)
		}
	default:
		return fmt.Errorf("unsupported path %q", a.Path[0])
	}

	s.notebook.CellMap[a.ID] = cell
	return nil
}
