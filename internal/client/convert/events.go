package convert

import (
	"fmt"

	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// FromWireCellOrderEvent переводит событие подписки cellOrder в модель
func FromWireCellOrderEvent(def api.CellOrderEventDef) (models.CellOrderEvent, error) {
	switch def.Typename {
	case api.TypeCellInsertedEvent:
		return models.CellInserted{ID: def.ID, Pos: def.Pos}, nil
	case api.TypeCellRemovedEvent:
		return models.CellRemoved{Pos: def.Pos}, nil
	case api.TypeCellMovedEvent:
		return models.CellMoved{PosFrom: def.PosFrom, PosTo: def.PosTo}, nil
	case api.TypeCellReplacedEvent:
		return models.CellReplaced{ID: def.ID, Local: def.Local}, nil
	}
	return nil, fmt.Errorf("%w: cell order event %q", ErrUnknownTypename, def.Typename)
}

// ToWireCellOrderEvent обратное преобразование, используется backend при публикации
func ToWireCellOrderEvent(ev models.CellOrderEvent) api.CellOrderEventDef {
	switch e := ev.(type) {
	case models.CellInserted:
		return api.CellOrderEventDef{Typename: api.TypeCellInsertedEvent, ID: e.ID, Pos: e.Pos}
	case models.CellRemoved:
		return api.CellOrderEventDef{Typename: api.TypeCellRemovedEvent, Pos: e.Pos}
	case models.CellMoved:
		return api.CellOrderEventDef{Typename: api.TypeCellMovedEvent, PosFrom: e.PosFrom, PosTo: e.PosTo}
	case models.CellReplaced:
		return api.CellOrderEventDef{Typename: api.TypeCellReplacedEvent, ID: e.ID, Local: e.Local}
	}
	panic(fmt.Sprintf("convert: unexpected cell order event %T", ev))
}

// FromWireCellSourceEvent переводит событие подписки cellSource в модель
func FromWireCellSourceEvent(def api.CellSourceEventDef) models.CellSourceChanged {
	return models.CellSourceChanged{
		ID:   def.ID,
		Type: models.DiffType(def.Type),
		Diff: def.Diff,
	}
}
