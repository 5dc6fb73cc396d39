package actions

import "github.com/nteract/mythic-rtc/internal/models"

// Типы действий совместной работы
const (
	TypeJoinSession           = "collaboration/join"
	TypeJoinSessionSucceeded  = "collaboration/join/succeeded"
	TypeJoinSessionFailed     = "collaboration/join/failed"
	TypeLeaveSession          = "collaboration/leave"
	TypeLeaveSessionSucceeded = "collaboration/leave/succeeded"
	TypeUpdateCellMap         = "collaboration/updateCellMap"
	TypeDeleteCellFromMap     = "collaboration/deleteCellFromMap"
	TypeRecordInsertCell      = "collaboration/recordInsertCell"
	TypeRecordDeleteCell      = "collaboration/recordDeleteCell"
	TypeRecordCellContent     = "collaboration/recordCellContent"
)

// JoinSession запрашивает подключение к сессии для ноутбука
type JoinSession struct {
	Notebook *models.Notebook
	FilePath string
}

// JoinSessionSucceeded подключение выполнено
type JoinSessionSucceeded struct {
	NotebookID string
}

// JoinSessionFailed подключение не удалось
type JoinSessionFailed struct {
	Err error
}

// LeaveSession запрашивает отключение от сессии
type LeaveSession struct{}

// LeaveSessionSucceeded отключение выполнено
type LeaveSessionSucceeded struct{}

// UpdateCellMap связывает локальный и удаленный id
type UpdateCellMap struct {
	LocalID  string
	RemoteID string
}

// DeleteCellFromMap удаляет связь для локального id
type DeleteCellFromMap struct {
	LocalID string
}

// RecordInsertCell просит записать локальную вставку на backend
type RecordInsertCell struct {
	Cell     models.Cell
	ID       string
	InsertAt int
}

// RecordDeleteCell просит записать локальное удаление на backend
type RecordDeleteCell struct {
	ID string
}

// RecordCellContent просит записать новый текст ячейки на backend
type RecordCellContent struct {
	ID    string
	Value string
}

func (JoinSession) Type() string           { return TypeJoinSession }
func (JoinSessionSucceeded) Type() string  { return TypeJoinSessionSucceeded }
func (JoinSessionFailed) Type() string     { return TypeJoinSessionFailed }
func (LeaveSession) Type() string          { return TypeLeaveSession }
func (LeaveSessionSucceeded) Type() string { return TypeLeaveSessionSucceeded }
func (UpdateCellMap) Type() string         { return TypeUpdateCellMap }
func (DeleteCellFromMap) Type() string     { return TypeDeleteCellFromMap }
func (RecordInsertCell) Type() string      { return TypeRecordInsertCell }
func (RecordDeleteCell) Type() string      { return TypeRecordDeleteCell }
func (RecordCellContent) Type() string     { return TypeRecordCellContent }

func (JoinSession) isAction()           {}
func (JoinSessionSucceeded) isAction()  {}
func (JoinSessionFailed) isAction()     {}
func (LeaveSession) isAction()          {}
func (LeaveSessionSucceeded) isAction() {}
func (UpdateCellMap) isAction()         {}
func (DeleteCellFromMap) isAction()     {}
func (RecordInsertCell) isAction()      {}
func (RecordDeleteCell) isAction()      {}
func (RecordCellContent) isAction()     {}
