package models

import "slices"

// Output is a code cell output. The set of implementations is closed:
// ExecuteResult, DisplayData, StreamOutput and ErrorOutput.
type Output interface {
	OutputType() string
	isOutput()
}

// Output type tags as they appear in nbformat.
const (
	OutputTypeExecuteResult = "execute_result"
	OutputTypeDisplayData   = "display_data"
	OutputTypeStream        = "stream"
	OutputTypeError         = "error"
)

// ExecuteResult результат выполнения ячейки
type ExecuteResult struct {
	Data           MediaBundle
	Metadata       Metadata
	ExecutionCount int
}

// DisplayData rich output emitted by display()
type DisplayData struct {
	Data     MediaBundle
	Metadata Metadata
}

// StreamOutput текст из stdout/stderr
type StreamOutput struct {
	Name string
	Text string
}

// ErrorOutput исключение, выброшенное при выполнении
type ErrorOutput struct {
	Name      string
	Value     string
	Traceback []string
}

func (ExecuteResult) OutputType() string { return OutputTypeExecuteResult }
func (DisplayData) OutputType() string   { return OutputTypeDisplayData }
func (StreamOutput) OutputType() string  { return OutputTypeStream }
func (ErrorOutput) OutputType() string   { return OutputTypeError }

func (ExecuteResult) isOutput() {}
func (DisplayData) isOutput()   {}
func (StreamOutput) isOutput()  {}
func (ErrorOutput) isOutput()   {}

// CloneOutput возвращает глубокую копию output
func CloneOutput(o Output) Output {
	switch v := o.(type) {
	case ExecuteResult:
		return ExecuteResult{
			ExecutionCount: v.ExecutionCount,
			Data:           v.Data.Clone(),
			Metadata:       v.Metadata.Clone(),
		}
	case DisplayData:
		return DisplayData{Data: v.Data.Clone(), Metadata: v.Metadata.Clone()}
	case StreamOutput:
		return v
	case ErrorOutput:
		return ErrorOutput{Name: v.Name, Value: v.Value, Traceback: slices.Clone(v.Traceback)}
	}
	return o
}
