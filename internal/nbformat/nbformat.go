// Package nbformat reads and writes Jupyter notebooks (nbformat v4) as models.Notebook.
package nbformat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nteract/mythic-rtc/internal/models"
)

const (
	// Version мажорная версия формата, которую понимает пакет
	Version = 4
	// VersionMinor минорная версия при записи (ячейки с id)
	VersionMinor = 5
)

var (
	// ErrUnsupportedVersion returned for notebooks other than nbformat 4
	ErrUnsupportedVersion = errors.New("unsupported nbformat version")

	// ErrInvalidNotebook returned when the document does not follow the v4 schema
	ErrInvalidNotebook = errors.New("invalid notebook document")
)

// document корневой объект .ipynb при чтении
type document struct {
	Metadata      map[string]json.RawMessage `json:"metadata"`
	Cells         []cellJSON                 `json:"cells"`
	NBFormat      int                        `json:"nbformat"`
	NBFormatMinor int                        `json:"nbformat_minor"`
}

// outDocument корневой объект при записи; Cells содержит codeCellOut и textCellOut
type outDocument struct {
	Metadata      map[string]json.RawMessage `json:"metadata"`
	Cells         []any                      `json:"cells"`
	NBFormat      int                        `json:"nbformat"`
	NBFormatMinor int                        `json:"nbformat_minor"`
}

// codeCellOut всегда пишет execution_count (возможно null) и outputs
type codeCellOut struct {
	Metadata       map[string]json.RawMessage `json:"metadata"`
	ExecutionCount *int                       `json:"execution_count"`
	ID             string                     `json:"id"`
	CellType       string                     `json:"cell_type"`
	Source         multiline                  `json:"source"`
	Outputs        []outputJSON               `json:"outputs"`
}

type textCellOut struct {
	Metadata map[string]json.RawMessage `json:"metadata"`
	ID       string                     `json:"id"`
	CellType string                     `json:"cell_type"`
	Source   multiline                  `json:"source"`
}

type cellJSON struct {
	Metadata       map[string]json.RawMessage `json:"metadata"`
	ExecutionCount *int                       `json:"execution_count"`
	ID             string                     `json:"id"`
	CellType       string                     `json:"cell_type"`
	Source         multiline                  `json:"source"`
	Outputs        []outputJSON               `json:"outputs"`
}

type outputJSON struct {
	Data           map[string]json.RawMessage `json:"data,omitempty"`
	Metadata       map[string]json.RawMessage `json:"metadata,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           multiline                  `json:"text,omitempty"`
	Ename          string                     `json:"ename,omitempty"`
	Evalue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
}

// multiline строка, которую nbformat хранит либо строкой, либо списком строк
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = multiline(strings.Join(lines, ""))
	return nil
}

// MarshalJSON пишет список строк с сохранением переводов строк, как Jupyter
func (m multiline) MarshalJSON() ([]byte, error) {
	lines := strings.SplitAfter(string(m), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if lines == nil {
		lines = []string{}
	}
	return json.Marshal(lines)
}

// Read декодирует nbformat v4 документ.
// Ячейки без id или с повторяющимся id получают новый uuid.
func Read(r io.Reader) (*models.Notebook, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if doc.NBFormat != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.NBFormat)
	}

	nb := models.NewNotebook()
	nb.Metadata = toMetadata(doc.Metadata)

	for i, c := range doc.Cells {
		cell, err := fromCellJSON(c)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrInvalidNotebook, i, err)
		}
		id := c.ID
		if _, dup := nb.CellMap[id]; id == "" || dup {
			id = uuid.NewString()
		}
		if err := nb.InsertAt(nb.Len(), id, cell); err != nil {
			return nil, err
		}
	}

	return nb, nil
}

// Write кодирует ноутбук как nbformat 4.5 с отступом в один пробел, как Jupyter
func Write(w io.Writer, nb *models.Notebook) error {
	doc := outDocument{
		Metadata:      fromMetadata(nb.Metadata),
		Cells:         make([]any, 0, nb.Len()),
		NBFormat:      Version,
		NBFormatMinor: VersionMinor,
	}

	for _, id := range nb.CellOrder {
		cell, ok := nb.CellMap[id]
		if !ok {
			continue
		}
		c, err := toCellJSON(id, cell)
		if err != nil {
			return fmt.Errorf("cell %s: %w", id, err)
		}
		doc.Cells = append(doc.Cells, c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode notebook: %w", err)
	}
	return nil
}

// ReadFile читает ноутбук с диска
func ReadFile(path string) (*models.Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open notebook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}

// WriteFile атомарно записывает ноутбук: во временный файл рядом, затем rename
func WriteFile(path string, nb *models.Notebook) error {
	var buf bytes.Buffer
	if err := Write(&buf, nb); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace notebook: %w", err)
	}
	return nil
}

func fromCellJSON(c cellJSON) (models.Cell, error) {
	cell := models.Cell{
		Type:     models.CellType(c.CellType),
		Source:   string(c.Source),
		Metadata: toMetadata(c.Metadata),
	}

	switch cell.Type {
	case models.CellTypeCode:
		cell.ExecutionCount = c.ExecutionCount
		cell.Outputs = make([]models.Output, 0, len(c.Outputs))
		for i, o := range c.Outputs {
			out, err := fromOutputJSON(o)
			if err != nil {
				return models.Cell{}, fmt.Errorf("output %d: %w", i, err)
			}
			cell.Outputs = append(cell.Outputs, out)
		}
	case models.CellTypeMarkdown, models.CellTypeRaw:
	default:
		return models.Cell{}, fmt.Errorf("%w: %q", models.ErrUnknownCellType, c.CellType)
	}

	return cell, nil
}

func fromOutputJSON(o outputJSON) (models.Output, error) {
	switch o.OutputType {
	case models.OutputTypeExecuteResult:
		out := models.ExecuteResult{
			Data:     models.MediaBundle(o.Data),
			Metadata: toMetadata(o.Metadata),
		}
		if o.ExecutionCount != nil {
			out.ExecutionCount = *o.ExecutionCount
		}
		return out, nil
	case models.OutputTypeDisplayData:
		return models.DisplayData{Data: models.MediaBundle(o.Data), Metadata: toMetadata(o.Metadata)}, nil
	case models.OutputTypeStream:
		return models.StreamOutput{Name: o.Name, Text: string(o.Text)}, nil
	case models.OutputTypeError:
		return models.ErrorOutput{Name: o.Ename, Value: o.Evalue, Traceback: o.Traceback}, nil
	}
	return nil, fmt.Errorf("unknown output_type %q", o.OutputType)
}

func toCellJSON(id string, cell models.Cell) (any, error) {
	switch cell.Type {
	case models.CellTypeCode:
		c := codeCellOut{
			ID:             id,
			CellType:       string(cell.Type),
			Source:         multiline(cell.Source),
			Metadata:       fromMetadata(cell.Metadata),
			ExecutionCount: cell.ExecutionCount,
			Outputs:        make([]outputJSON, 0, len(cell.Outputs)),
		}
		for _, out := range cell.Outputs {
			c.Outputs = append(c.Outputs, toOutputJSON(out))
		}
		return c, nil
	case models.CellTypeMarkdown, models.CellTypeRaw:
		return textCellOut{
			ID:       id,
			CellType: string(cell.Type),
			Source:   multiline(cell.Source),
			Metadata: fromMetadata(cell.Metadata),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownCellType, cell.Type)
}

func toOutputJSON(out models.Output) outputJSON {
	switch o := out.(type) {
	case models.ExecuteResult:
		n := o.ExecutionCount
		return outputJSON{
			OutputType:     models.OutputTypeExecuteResult,
			ExecutionCount: &n,
			Data:           o.Data,
			Metadata:       fromMetadata(o.Metadata),
		}
	case models.DisplayData:
		return outputJSON{
			OutputType: models.OutputTypeDisplayData,
			Data:       o.Data,
			Metadata:   fromMetadata(o.Metadata),
		}
	case models.StreamOutput:
		return outputJSON{OutputType: models.OutputTypeStream, Name: o.Name, Text: multiline(o.Text)}
	case models.ErrorOutput:
		return outputJSON{OutputType: models.OutputTypeError, Ename: o.Name, Evalue: o.Value, Traceback: o.Traceback}
	}
	panic(fmt.Sprintf("nbformat: unexpected output type %T", out))
}

func toMetadata(m map[string]json.RawMessage) models.Metadata {
	if m == nil {
		return models.Metadata{}
	}
	return models.Metadata(m)
}

func fromMetadata(m models.Metadata) map[string]json.RawMessage {
	if m == nil {
		return map[string]json.RawMessage{}
	}
	return m
}
