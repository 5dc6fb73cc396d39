// Package convert maps notebooks between the in-memory model and the wire schema
// used by the collaboration backend.
//
// Metadata and media bundle values travel as individual JSON texts, so
// FromWireNotebook(ToWireNotebook(n)) reproduces n exactly.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/pkg/api"
)

var (
	// ErrUnknownTypename indicates a wire variant this client does not understand
	ErrUnknownTypename = errors.New("unknown __typename")

	// ErrInvalidValue indicates a metadata or media bundle value that is not valid JSON
	ErrInvalidValue = errors.New("value is not valid JSON")
)

// ToWireNotebook сериализует весь ноутбук в NotebookContentInput.
// Ячейки идут в порядке CellOrder; id, отсутствующие в CellMap, пропускаются.
func ToWireNotebook(nb *models.Notebook) (api.NotebookContentInput, error) {
	content := api.NotebookContentInput{
		Cells:    make([]api.CellInput, 0, len(nb.CellOrder)),
		Metadata: toMetadataEntries(nb.Metadata),
	}

	for _, id := range nb.CellOrder {
		cell, ok := nb.CellMap[id]
		if !ok {
			continue
		}
		input, err := ToWireCell(cell)
		if err != nil {
			return api.NotebookContentInput{}, fmt.Errorf("cell %s: %w", id, err)
		}
		content.Cells = append(content.Cells, input)
	}

	return content, nil
}

// ToWireCell сериализует одну ячейку (используется для insertCell)
func ToWireCell(cell models.Cell) (api.CellInput, error) {
	switch cell.Type {
	case models.CellTypeCode:
		code := &api.CodeCellInput{
			Source:         cell.Source,
			ExecutionCount: cell.ExecutionCount,
			Metadata:       toMetadataEntries(cell.Metadata),
			Outputs:        make([]api.OutputInput, 0, len(cell.Outputs)),
		}
		for _, out := range cell.Outputs {
			code.Outputs = append(code.Outputs, toOutputInput(out))
		}
		return api.CellInput{Code: code}, nil
	case models.CellTypeMarkdown:
		return api.CellInput{Markdown: &api.TextCellInput{
			Source:   cell.Source,
			Metadata: toMetadataEntries(cell.Metadata),
		}}, nil
	case models.CellTypeRaw:
		return api.CellInput{Raw: &api.TextCellInput{
			Source:   cell.Source,
			Metadata: toMetadataEntries(cell.Metadata),
		}}, nil
	}
	return api.CellInput{}, fmt.Errorf("%w: %q", models.ErrUnknownCellType, cell.Type)
}

func toOutputInput(out models.Output) api.OutputInput {
	switch o := out.(type) {
	case models.ExecuteResult:
		return api.OutputInput{ExecuteResult: &api.ExecuteResultInput{
			ExecutionCount: o.ExecutionCount,
			Data:           toMediaBundleEntries(o.Data),
			Metadata:       toMetadataEntries(o.Metadata),
		}}
	case models.DisplayData:
		return api.OutputInput{DisplayData: &api.DisplayDataInput{
			Data:     toMediaBundleEntries(o.Data),
			Metadata: toMetadataEntries(o.Metadata),
		}}
	case models.StreamOutput:
		return api.OutputInput{Stream: &api.StreamOutputInput{Name: o.Name, Text: o.Text}}
	case models.ErrorOutput:
		return api.OutputInput{Error: &api.ErrorOutputInput{
			Ename:     o.Name,
			Evalue:    o.Value,
			Traceback: o.Traceback,
		}}
	}
	// Output: закрытый набор типов, сюда попасть нельзя
	panic(fmt.Sprintf("convert: unexpected output type %T", out))
}

// FromWireNotebook восстанавливает ноутбук из ответа backend.
// Идентификаторы ячеек берутся из определений.
func FromWireNotebook(def api.NotebookDef) (*models.Notebook, error) {
	nb := models.NewNotebook()

	metadata, err := fromMetadataEntries(def.Metadata)
	if err != nil {
		return nil, fmt.Errorf("notebook metadata: %w", err)
	}
	nb.Metadata = metadata

	for _, cellDef := range def.Cells.Nodes {
		cell, err := FromWireCell(cellDef)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", cellDef.ID, err)
		}
		if err := nb.InsertAt(nb.Len(), cellDef.ID, cell); err != nil {
			return nil, err
		}
	}

	return nb, nil
}

// FromWireCell восстанавливает одну ячейку вместе с outputs
func FromWireCell(def api.CellDef) (models.Cell, error) {
	metadata, err := fromMetadataEntries(def.Metadata)
	if err != nil {
		return models.Cell{}, fmt.Errorf("metadata: %w", err)
	}

	switch def.Typename {
	case api.TypeCodeCell:
		cell := models.Cell{
			Type:           models.CellTypeCode,
			Source:         def.Source,
			Metadata:       metadata,
			ExecutionCount: def.ExecutionCount,
			Outputs:        make([]models.Output, 0, len(def.Outputs)),
		}
		for i, outDef := range def.Outputs {
			out, err := fromOutputDef(outDef)
			if err != nil {
				return models.Cell{}, fmt.Errorf("output %d: %w", i, err)
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		return cell, nil
	case api.TypeMarkdownCell:
		return models.Cell{Type: models.CellTypeMarkdown, Source: def.Source, Metadata: metadata}, nil
	case api.TypeRawCell:
		return models.Cell{Type: models.CellTypeRaw, Source: def.Source, Metadata: metadata}, nil
	}
	return models.Cell{}, fmt.Errorf("%w: cell %q", ErrUnknownTypename, def.Typename)
}

func fromOutputDef(def api.CellOutputDef) (models.Output, error) {
	switch def.Typename {
	case api.TypeExecuteResult:
		data, metadata, err := fromBundleAndMetadata(def)
		if err != nil {
			return nil, err
		}
		return models.ExecuteResult{ExecutionCount: def.ExecutionCount, Data: data, Metadata: metadata}, nil
	case api.TypeDisplayData:
		data, metadata, err := fromBundleAndMetadata(def)
		if err != nil {
			return nil, err
		}
		return models.DisplayData{Data: data, Metadata: metadata}, nil
	case api.TypeStreamOutput:
		return models.StreamOutput{Name: def.Name, Text: def.Text}, nil
	case api.TypeErrorOutput:
		return models.ErrorOutput{Name: def.Ename, Value: def.Evalue, Traceback: def.Traceback}, nil
	}
	return nil, fmt.Errorf("%w: output %q", ErrUnknownTypename, def.Typename)
}

func fromBundleAndMetadata(def api.CellOutputDef) (models.MediaBundle, models.Metadata, error) {
	data, err := fromMediaBundleEntries(def.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("data: %w", err)
	}
	metadata, err := fromMetadataEntries(def.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata: %w", err)
	}
	return data, metadata, nil
}

// toMetadataEntries кодирует каждое значение отдельно; ключи сортируются,
// чтобы один и тот же ноутбук всегда давал одинаковый input.
func toMetadataEntries(md models.Metadata) []api.MetadataEntry {
	entries := make([]api.MetadataEntry, 0, len(md))
	for _, key := range slices.Sorted(maps.Keys(md)) {
		entries = append(entries, api.MetadataEntry{Key: key, Value: encodeValue(md[key])})
	}
	return entries
}

func toMediaBundleEntries(bundle models.MediaBundle) []api.MediaBundleEntry {
	entries := make([]api.MediaBundleEntry, 0, len(bundle))
	for _, key := range slices.Sorted(maps.Keys(bundle)) {
		entries = append(entries, api.MediaBundleEntry{Key: key, Value: encodeValue(bundle[key])})
	}
	return entries
}

func fromMetadataEntries(entries []api.MetadataEntry) (models.Metadata, error) {
	md := make(models.Metadata, len(entries))
	for _, e := range entries {
		raw, err := decodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", e.Key, err)
		}
		md[e.Key] = raw
	}
	return md, nil
}

func fromMediaBundleEntries(entries []api.MediaBundleEntry) (models.MediaBundle, error) {
	bundle := make(models.MediaBundle, len(entries))
	for _, e := range entries {
		raw, err := decodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("mime type %q: %w", e.Key, err)
		}
		bundle[e.Key] = raw
	}
	return bundle, nil
}

func encodeValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

func decodeValue(value string) (json.RawMessage, error) {
	if !json.Valid([]byte(value)) {
		return nil, ErrInvalidValue
	}
	return json.RawMessage(value), nil
}
