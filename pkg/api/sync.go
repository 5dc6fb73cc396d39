package api

import (
	"encoding/json"
	"strings"
)

// Operation имя операции схемы (query, mutation или subscription)
type Operation string

// Queries
const (
	OpNotebook Operation = "notebook"
	OpCell     Operation = "cell"
)

// Mutations
const (
	OpUpsertNotebook  Operation = "upsertNotebook"
	OpInsertCell      Operation = "insertCell"
	OpDeleteCell      Operation = "deleteCell"
	OpPatchCellSource Operation = "patchCellSource"
)

// Subscriptions
const (
	SubCellOrder  Operation = "cellOrder"
	SubCellSource Operation = "cellSource"
)

// IsSubscription reports whether op is served over the subscription channel.
func (op Operation) IsSubscription() bool {
	return op == SubCellOrder || op == SubCellSource
}

// ExecuteRequest представляет запрос на выполнение query или mutation
type ExecuteRequest struct {
	Operation Operation       `json:"operation"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// SubscribeRequest первое сообщение, которое клиент отправляет после открытия websocket
type SubscribeRequest struct {
	Operation Operation       `json:"operation"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// GraphError одна структурированная ошибка выполнения
type GraphError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Result представляет результат выполнения операции или одно событие подписки.
// Data содержит объект с одним ключом: именем операции.
type Result struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphError    `json:"errors,omitempty"`
}

// HasErrors reports whether the result carries execution errors.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessage joins all error messages of the result.
func (r Result) ErrorMessage() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// NotebookVariables переменные query notebook
type NotebookVariables struct {
	FilePath string `json:"filePath"`
}

// CellVariables переменные query cell
type CellVariables struct {
	NotebookID string `json:"notebookId,omitempty"`
	CellID     string `json:"cellId"`
}

// SubscriptionVariables переменные подписок cellOrder и cellSource
type SubscriptionVariables struct {
	NotebookID string `json:"notebookId"`
}

// DeleteCellVariables переменные mutation deleteCell
type DeleteCellVariables struct {
	ID string `json:"id"`
}

// InputVariables обертка для мутаций, принимающих единственный аргумент input
type InputVariables[T any] struct {
	Input T `json:"input"`
}

// NotebookData ответ query notebook
type NotebookData struct {
	Notebook *NotebookDef `json:"notebook"`
}

// CellData ответ query cell
type CellData struct {
	Cell *CellDef `json:"cell"`
}

// UpsertNotebookData ответ mutation upsertNotebook
type UpsertNotebookData struct {
	UpsertNotebook UpsertNotebookPayload `json:"upsertNotebook"`
}

// InsertCellData ответ mutation insertCell
type InsertCellData struct {
	InsertCell CellDef `json:"insertCell"`
}

// DeleteCellData ответ mutation deleteCell
type DeleteCellData struct {
	DeleteCell bool `json:"deleteCell"`
}

// PatchCellSourceData ответ mutation patchCellSource
type PatchCellSourceData struct {
	PatchCellSource bool `json:"patchCellSource"`
}

// CellOrderData событие подписки cellOrder
type CellOrderData struct {
	CellOrder CellOrderEventDef `json:"cellOrder"`
}

// CellSourceData событие подписки cellSource
type CellSourceData struct {
	CellSource CellSourceEventDef `json:"cellSource"`
}
