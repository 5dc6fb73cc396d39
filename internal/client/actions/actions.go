// Package actions defines the closed set of actions dispatched to the local
// notebook store: notebook edits and the collaboration vocabulary around them.
package actions

import (
	"github.com/nteract/mythic-rtc/internal/models"
)

// Origin отмечает, откуда пришло изменение
type Origin string

// Origin константы
const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// IsRemote reports whether the change was replayed from the backend.
func (o Origin) IsRemote() bool {
	return o == OriginRemote
}

// Action действие, отправляемое в store. Набор реализаций закрыт.
type Action interface {
	Type() string
	isAction()
}

// Типы действий над ноутбуком
const (
	TypeFetchContentFulfilled = "FETCH_CONTENT_FULFILLED"
	TypeCreateCellAbove       = "CREATE_CELL_ABOVE"
	TypeCreateCellBelow       = "CREATE_CELL_BELOW"
	TypeDeleteCell            = "DELETE_CELL"
	TypeSetInCell             = "SET_IN_CELL"
	TypeMoveCell              = "MOVE_CELL"
)

// FetchContentFulfilled заменяет содержимое ноутбука целиком
type FetchContentFulfilled struct {
	Notebook *models.Notebook
	FilePath string
	Origin   Origin
}

// CreateCellAbove вставляет ячейку над ID.
// NewID: локальный id новой ячейки; пустой означает, что store выдаст новый.
// RemoteCellID задается для вставок, пришедших с backend.
type CreateCellAbove struct {
	Cell         models.Cell
	ID           string
	NewID        string
	Origin       Origin
	RemoteCellID string
}

// CreateCellBelow вставляет ячейку под ID
type CreateCellBelow struct {
	Cell         models.Cell
	ID           string
	NewID        string
	Origin       Origin
	RemoteCellID string
}

// DeleteCell удаляет ячейку ID
type DeleteCell struct {
	ID     string
	Origin Origin
}

// SetInCell устанавливает значение по пути Path внутри ячейки ID
type SetInCell struct {
	Value  any
	ID     string
	Origin Origin
	Path   []string
}

// MoveCell переносит ячейку ID выше или ниже DestID
type MoveCell struct {
	ID     string
	DestID string
	Origin Origin
	Above  bool
}

func (FetchContentFulfilled) Type() string { return TypeFetchContentFulfilled }
func (CreateCellAbove) Type() string       { return TypeCreateCellAbove }
func (CreateCellBelow) Type() string       { return TypeCreateCellBelow }
func (DeleteCell) Type() string            { return TypeDeleteCell }
func (SetInCell) Type() string             { return TypeSetInCell }
func (MoveCell) Type() string              { return TypeMoveCell }

func (FetchContentFulfilled) isAction() {}
func (CreateCellAbove) isAction()       {}
func (CreateCellBelow) isAction()       {}
func (DeleteCell) isAction()            {}
func (SetInCell) isAction()             {}
func (MoveCell) isAction()              {}

// IsSourcePath reports whether path addresses the cell source.
func IsSourcePath(path []string) bool {
	return len(path) > 0 && path[0] == "source"
}
