package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// CellType тип ячейки ноутбука
type CellType string

// CellType константы
const (
	CellTypeCode     CellType = "code"
	CellTypeMarkdown CellType = "markdown"
	CellTypeRaw      CellType = "raw"
)

// Valid reports whether t is one of the known cell kinds.
func (t CellType) Valid() bool {
	switch t {
	case CellTypeCode, CellTypeMarkdown, CellTypeRaw:
		return true
	}
	return false
}

var (
	// ErrDuplicateCellID indicates that the cell order lists an id twice
	ErrDuplicateCellID = errors.New("duplicate cell id in cell order")

	// ErrMissingCell indicates that the cell order references an id absent from the cell map
	ErrMissingCell = errors.New("cell order references unknown cell")

	// ErrUnknownCellType indicates a cell kind outside code/markdown/raw
	ErrUnknownCellType = errors.New("unknown cell type")
)

// Metadata ключ -> JSON значение. Каждое значение хранится как отдельный JSON текст,
// чтобы на проводе его можно было передать строкой и восстановить без потерь.
type Metadata map[string]json.RawMessage

// Set сериализует v в JSON и сохраняет под ключом key
func (m Metadata) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata %q: %w", key, err)
	}
	m[key] = raw
	return nil
}

// String returns the value under key decoded as a JSON string.
func (m Metadata) String(key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Clone возвращает глубокую копию
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// MediaBundle MIME type -> serialized payload
type MediaBundle map[string]json.RawMessage

// Clone возвращает глубокую копию
func (b MediaBundle) Clone() MediaBundle {
	if b == nil {
		return nil
	}
	out := make(MediaBundle, len(b))
	for k, v := range b {
		out[k] = slices.Clone(v)
	}
	return out
}

// Cell представляет одну ячейку ноутбука.
// ExecutionCount и Outputs имеют смысл только для code ячеек.
type Cell struct {
	Metadata       Metadata
	ExecutionCount *int
	Type           CellType
	Source         string
	Outputs        []Output
}

// NewCodeCell creates a code cell with the given source.
func NewCodeCell(source string) Cell {
	return Cell{Type: CellTypeCode, Source: source, Metadata: Metadata{}, Outputs: []Output{}}
}

// NewMarkdownCell creates a markdown cell with the given source.
func NewMarkdownCell(source string) Cell {
	return Cell{Type: CellTypeMarkdown, Source: source, Metadata: Metadata{}}
}

// NewRawCell creates a raw cell with the given source.
func NewRawCell(source string) Cell {
	return Cell{Type: CellTypeRaw, Source: source, Metadata: Metadata{}}
}

// Clone создает глубокую копию ячейки
func (c Cell) Clone() Cell {
	out := Cell{
		Type:     c.Type,
		Source:   c.Source,
		Metadata: c.Metadata.Clone(),
	}
	if c.ExecutionCount != nil {
		n := *c.ExecutionCount
		out.ExecutionCount = &n
	}
	if c.Outputs != nil {
		out.Outputs = make([]Output, len(c.Outputs))
		for i, o := range c.Outputs {
			out.Outputs[i] = CloneOutput(o)
		}
	}
	return out
}

// Notebook is an ordered sequence of cell ids plus the cells themselves.
type Notebook struct {
	CellMap   map[string]Cell
	Metadata  Metadata
	CellOrder []string
}

// NewNotebook creates an empty notebook.
func NewNotebook() *Notebook {
	return &Notebook{
		CellMap:   make(map[string]Cell),
		Metadata:  Metadata{},
		CellOrder: []string{},
	}
}

// Validate проверяет инварианты: нет дубликатов в CellOrder
// и каждый id из CellOrder присутствует в CellMap.
func (n *Notebook) Validate() error {
	seen := make(map[string]struct{}, len(n.CellOrder))
	for _, id := range n.CellOrder {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCellID, id)
		}
		seen[id] = struct{}{}

		cell, ok := n.CellMap[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingCell, id)
		}
		if !cell.Type.Valid() {
			return fmt.Errorf("%w: %q (cell %s)", ErrUnknownCellType, cell.Type, id)
		}
	}
	return nil
}

// IndexOf returns the position of id in the cell order, or -1.
func (n *Notebook) IndexOf(id string) int {
	return slices.Index(n.CellOrder, id)
}

// IDAt returns the id at position pos when pos is a valid index.
func (n *Notebook) IDAt(pos int) (string, bool) {
	if pos < 0 || pos >= len(n.CellOrder) {
		return "", false
	}
	return n.CellOrder[pos], true
}

// Cell returns the cell stored under id.
func (n *Notebook) Cell(id string) (Cell, bool) {
	c, ok := n.CellMap[id]
	return c, ok
}

// Len returns the number of ordered cells.
func (n *Notebook) Len() int {
	return len(n.CellOrder)
}

// InsertAt вставляет ячейку с идентификатором id в позицию pos.
// pos ограничивается диапазоном [0, len].
func (n *Notebook) InsertAt(pos int, id string, cell Cell) error {
	if _, exists := n.CellMap[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCellID, id)
	}
	pos = max(0, min(pos, len(n.CellOrder)))
	n.CellOrder = slices.Insert(n.CellOrder, pos, id)
	if n.CellMap == nil {
		n.CellMap = make(map[string]Cell)
	}
	n.CellMap[id] = cell
	return nil
}

// Remove удаляет ячейку и возвращает её прежнюю позицию (или -1)
func (n *Notebook) Remove(id string) int {
	idx := n.IndexOf(id)
	if idx >= 0 {
		n.CellOrder = slices.Delete(n.CellOrder, idx, idx+1)
	}
	delete(n.CellMap, id)
	return idx
}

// Move переносит ячейку id выше или ниже destID.
func (n *Notebook) Move(id, destID string, above bool) bool {
	from := n.IndexOf(id)
	if from < 0 || id == destID || n.IndexOf(destID) < 0 {
		return false
	}
	n.CellOrder = slices.Delete(n.CellOrder, from, from+1)
	to := n.IndexOf(destID)
	if !above {
		to++
	}
	n.CellOrder = slices.Insert(n.CellOrder, to, id)
	return true
}

// Clone создает глубокую копию ноутбука
func (n *Notebook) Clone() *Notebook {
	if n == nil {
		return nil
	}
	out := &Notebook{
		CellOrder: slices.Clone(n.CellOrder),
		CellMap:   make(map[string]Cell, len(n.CellMap)),
		Metadata:  n.Metadata.Clone(),
	}
	if out.CellOrder == nil {
		out.CellOrder = []string{}
	}
	for id, c := range n.CellMap {
		out.CellMap[id] = c.Clone()
	}
	return out
}
