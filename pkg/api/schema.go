package api

import (
	"errors"
	"fmt"
)

// __typename дискриминаторы ячеек
const (
	TypeCodeCell     = "CodeCell"
	TypeMarkdownCell = "MarkdownCell"
	TypeRawCell      = "RawCell"
)

// __typename дискриминаторы outputs
const (
	TypeExecuteResult = "ExecuteResult"
	TypeDisplayData   = "DisplayData"
	TypeStreamOutput  = "StreamOutput"
	TypeErrorOutput   = "ErrorOutput"
)

// __typename дискриминаторы событий cellOrder
const (
	TypeCellInsertedEvent = "CellInsertedEvent"
	TypeCellRemovedEvent  = "CellRemovedEvent"
	TypeCellMovedEvent    = "CellMovedEvent"
	TypeCellReplacedEvent = "CellReplacedEvent"
)

// DiffType значения поля type в PatchCellSourceInput
const (
	DiffInsert  = "insert"
	DiffDelete  = "delete"
	DiffReplace = "replace"
)

// ErrInvalidCellInput returned when a CellInput or OutputInput does not set exactly one variant
var ErrInvalidCellInput = errors.New("input must set exactly one variant")

// MetadataEntry одна запись метаданных; Value: JSON текст значения
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MediaBundleEntry одна запись media bundle; Value: JSON текст payload
type MediaBundleEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NotebookDef представляет ноутбук, как его возвращает backend
type NotebookDef struct {
	ID       string            `json:"id"`
	Cells    CellConnectionDef `json:"cells"`
	Metadata []MetadataEntry   `json:"metadata"`
}

// CellConnectionDef список ячеек в порядке отображения
type CellConnectionDef struct {
	Nodes []CellDef `json:"nodes"`
}

// CellDef представляет ячейку. Typename выбирает вариант: CodeCell, MarkdownCell, RawCell.
// ExecutionCount и Outputs заполняются только для CodeCell.
type CellDef struct {
	ExecutionCount *int            `json:"executionCount,omitempty"`
	Typename       string          `json:"__typename"`
	ID             string          `json:"id"`
	Source         string          `json:"source"`
	Metadata       []MetadataEntry `json:"metadata"`
	Outputs        []CellOutputDef `json:"outputs,omitempty"`
}

// CellOutputDef представляет output. Typename выбирает вариант.
type CellOutputDef struct {
	Typename       string             `json:"__typename"`
	Name           string             `json:"name,omitempty"`
	Text           string             `json:"text,omitempty"`
	Ename          string             `json:"ename,omitempty"`
	Evalue         string             `json:"evalue,omitempty"`
	Data           []MediaBundleEntry `json:"data,omitempty"`
	Metadata       []MetadataEntry    `json:"metadata,omitempty"`
	Traceback      []string           `json:"traceback,omitempty"`
	ExecutionCount int                `json:"executionCount,omitempty"`
}

// NotebookContentInput содержимое ноутбука для upsertNotebook
type NotebookContentInput struct {
	Cells    []CellInput     `json:"cells"`
	Metadata []MetadataEntry `json:"metadata,omitempty"`
}

// CellInput ячейка на входе мутаций. Должен быть задан ровно один вариант.
type CellInput struct {
	Code     *CodeCellInput `json:"code,omitempty"`
	Markdown *TextCellInput `json:"markdown,omitempty"`
	Raw      *TextCellInput `json:"raw,omitempty"`
}

// CodeCellInput code ячейка
type CodeCellInput struct {
	ExecutionCount *int            `json:"executionCount"`
	Source         string          `json:"source"`
	Metadata       []MetadataEntry `json:"metadata,omitempty"`
	Outputs        []OutputInput   `json:"outputs,omitempty"`
}

// TextCellInput markdown или raw ячейка
type TextCellInput struct {
	Source   string          `json:"source"`
	Metadata []MetadataEntry `json:"metadata,omitempty"`
}

// OutputInput output на входе. Должен быть задан ровно один вариант.
type OutputInput struct {
	ExecuteResult *ExecuteResultInput `json:"executeResult,omitempty"`
	DisplayData   *DisplayDataInput   `json:"displayData,omitempty"`
	Stream        *StreamOutputInput  `json:"stream,omitempty"`
	Error         *ErrorOutputInput   `json:"error,omitempty"`
}

// ExecuteResultInput execute_result output
type ExecuteResultInput struct {
	Data           []MediaBundleEntry `json:"data"`
	Metadata       []MetadataEntry    `json:"metadata,omitempty"`
	ExecutionCount int                `json:"executionCount"`
}

// DisplayDataInput display_data output
type DisplayDataInput struct {
	Data     []MediaBundleEntry `json:"data"`
	Metadata []MetadataEntry    `json:"metadata,omitempty"`
}

// StreamOutputInput stream output
type StreamOutputInput struct {
	Name string `json:"name"` // stdout или stderr
	Text string `json:"text"`
}

// ErrorOutputInput error output
type ErrorOutputInput struct {
	Ename     string   `json:"ename"`
	Evalue    string   `json:"evalue"`
	Traceback []string `json:"traceback"`
}

// UpsertNotebookInput аргумент upsertNotebook
type UpsertNotebookInput struct {
	FilePath string               `json:"filePath"`
	Content  NotebookContentInput `json:"content"`
}

// UpsertNotebookPayload результат upsertNotebook
type UpsertNotebookPayload struct {
	Notebook NotebookDef `json:"notebook"`
}

// InsertCellInput аргумент insertCell
type InsertCellInput struct {
	Cell     CellInput `json:"cell"`
	InsertAt int       `json:"insertAt"`
}

// PatchCellSourceInput аргумент patchCellSource.
// Клиент отправляет только type=replace с полным текстом в Diff;
// позиционные поля сохранены для совместимости схемы.
type PatchCellSourceInput struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Diff   string `json:"diff"`
	Start1 int    `json:"start1,omitempty"`
	Len1   int    `json:"len1,omitempty"`
	Start2 int    `json:"start2,omitempty"`
	Len2   int    `json:"len2,omitempty"`
}

// CellOrderEventDef событие подписки cellOrder. Typename выбирает вариант.
type CellOrderEventDef struct {
	Typename string `json:"__typename"`
	ID       string `json:"id,omitempty"`
	Pos      int    `json:"pos"`
	PosFrom  int    `json:"posFrom,omitempty"`
	PosTo    int    `json:"posTo,omitempty"`
	Local    bool   `json:"local,omitempty"`
}

// CellSourceEventDef событие подписки cellSource
type CellSourceEventDef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Diff string `json:"diff"`
}

// Validate checks that exactly one cell variant is set.
func (c CellInput) Validate() error {
	n := 0
	if c.Code != nil {
		n++
	}
	if c.Markdown != nil {
		n++
	}
	if c.Raw != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: cell has %d variants", ErrInvalidCellInput, n)
	}
	return nil
}

// Def превращает input в определение ячейки с идентификатором id
func (c CellInput) Def(id string) (CellDef, error) {
	if err := c.Validate(); err != nil {
		return CellDef{}, err
	}

	switch {
	case c.Code != nil:
		def := CellDef{
			Typename:       TypeCodeCell,
			ID:             id,
			Source:         c.Code.Source,
			Metadata:       nonNilEntries(c.Code.Metadata),
			ExecutionCount: c.Code.ExecutionCount,
			Outputs:        make([]CellOutputDef, 0, len(c.Code.Outputs)),
		}
		for i, out := range c.Code.Outputs {
			outDef, err := out.Def()
			if err != nil {
				return CellDef{}, fmt.Errorf("output %d: %w", i, err)
			}
			def.Outputs = append(def.Outputs, outDef)
		}
		return def, nil
	case c.Markdown != nil:
		return CellDef{
			Typename: TypeMarkdownCell,
			ID:       id,
			Source:   c.Markdown.Source,
			Metadata: nonNilEntries(c.Markdown.Metadata),
		}, nil
	default:
		return CellDef{
			Typename: TypeRawCell,
			ID:       id,
			Source:   c.Raw.Source,
			Metadata: nonNilEntries(c.Raw.Metadata),
		}, nil
	}
}

// Def превращает output input в определение output
func (o OutputInput) Def() (CellOutputDef, error) {
	n := 0
	for _, set := range []bool{o.ExecuteResult != nil, o.DisplayData != nil, o.Stream != nil, o.Error != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return CellOutputDef{}, fmt.Errorf("%w: output has %d variants", ErrInvalidCellInput, n)
	}

	switch {
	case o.ExecuteResult != nil:
		return CellOutputDef{
			Typename:       TypeExecuteResult,
			ExecutionCount: o.ExecuteResult.ExecutionCount,
			Data:           o.ExecuteResult.Data,
			Metadata:       o.ExecuteResult.Metadata,
		}, nil
	case o.DisplayData != nil:
		return CellOutputDef{
			Typename: TypeDisplayData,
			Data:     o.DisplayData.Data,
			Metadata: o.DisplayData.Metadata,
		}, nil
	case o.Stream != nil:
		return CellOutputDef{
			Typename: TypeStreamOutput,
			Name:     o.Stream.Name,
			Text:     o.Stream.Text,
		}, nil
	default:
		return CellOutputDef{
			Typename:  TypeErrorOutput,
			Ename:     o.Error.Ename,
			Evalue:    o.Error.Evalue,
			Traceback: o.Error.Traceback,
		}, nil
	}
}

func nonNilEntries(entries []MetadataEntry) []MetadataEntry {
	if entries == nil {
		return []MetadataEntry{}
	}
	return entries
}
