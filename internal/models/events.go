package models

// CellOrderEvent описывает изменение порядка ячеек на сервере.
// Реализации: CellInserted, CellRemoved, CellMoved, CellReplaced.
type CellOrderEvent interface {
	isCellOrderEvent()
}

// CellInserted ячейка id вставлена в позицию Pos
type CellInserted struct {
	ID  string
	Pos int
}

// CellRemoved ячейка в позиции Pos удалена
type CellRemoved struct {
	Pos int
}

// CellMoved ячейка перемещена из PosFrom в PosTo
type CellMoved struct {
	PosFrom int
	PosTo   int
}

// CellReplaced ячейка id заменена; Local отмечает замену, инициированную этим клиентом
type CellReplaced struct {
	ID    string
	Local bool
}

func (CellInserted) isCellOrderEvent() {}
func (CellRemoved) isCellOrderEvent()  {}
func (CellMoved) isCellOrderEvent()    {}
func (CellReplaced) isCellOrderEvent() {}

// DiffType kind of a cell source patch
type DiffType string

// DiffType константы
const (
	DiffInsert  DiffType = "insert"
	DiffDelete  DiffType = "delete"
	DiffReplace DiffType = "replace"
)

// CellSourceChanged remote change of a cell's source text.
type CellSourceChanged struct {
	ID   string
	Type DiffType
	Diff string
}
