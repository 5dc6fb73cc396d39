package api

import (
	"errors"
	"fmt"

	"github.com/nteract/mythic-rtc/pkg/api"
)

var (
	// ErrNotStarted returned when an operation is issued before Start
	ErrNotStarted = errors.New("gateway session not started")

	// ErrEmptyData returned when a successful result carries no data
	ErrEmptyData = errors.New("result has no data")
)

// ExecuteError структурированные ошибки, которые backend вернул для операции
type ExecuteError struct {
	Operation api.Operation
	Errors    []api.GraphError
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Operation, api.Result{Errors: e.Errors}.ErrorMessage())
}
