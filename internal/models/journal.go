package models

import "time"

// Операции, которые записываются на backend
const (
	OpInsertCell  = "insert_cell"
	OpDeleteCell  = "delete_cell"
	OpCellContent = "cell_content"
)

// FailedOperation локальное изменение, которое не удалось записать на backend
type FailedOperation struct {
	At        time.Time `json:"at"`
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	LocalID   string    `json:"local_id"`
	RemoteID  string    `json:"remote_id,omitempty"`
	Error     string    `json:"error"`
}

// SessionRecord последняя успешная сессия для ноутбука
type SessionRecord struct {
	JoinedAt   time.Time `json:"joined_at"`
	FilePath   string    `json:"file_path"`
	NotebookID string    `json:"notebook_id"`
}
