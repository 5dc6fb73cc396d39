package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/service"
	"github.com/nteract/mythic-rtc/internal/server/storage"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// Executor выполняет операции схемы от имени сессии из контекста
type Executor interface {
	Execute(ctx context.Context, op api.Operation, variables json.RawMessage) (any, error)
	Subscribe(ctx context.Context, op api.Operation, variables json.RawMessage) (*hub.Subscriber, error)
	Unsubscribe(sub *hub.Subscriber)
}

// clientErrors ошибки, текст которых безопасно отдавать клиенту
var clientErrors = []error{
	service.ErrUnknownOperation,
	service.ErrInvalidVariables,
	service.ErrForbidden,
	service.ErrUnsupportedDiff,
	service.ErrNoSession,
	storage.ErrNotebookNotFound,
	storage.ErrCellNotFound,
	storage.ErrInvalidCell,
}

// ExecuteHandler обрабатывает queries и mutations
type ExecuteHandler struct {
	logger   *slog.Logger
	executor Executor
}

// NewExecuteHandler создает новый handler операций
func NewExecuteHandler(logger *slog.Logger, executor Executor) *ExecuteHandler {
	return &ExecuteHandler{
		logger:   logger,
		executor: executor,
	}
}

// Execute обрабатывает POST /api/v1/execute.
// Ошибки выполнения возвращаются со статусом 200 в поле errors результата.
func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(h.logger, w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.ExecuteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode execute request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Operation == "" {
		sendError(h.logger, w, "operation is required", http.StatusBadRequest)
		return
	}

	data, err := h.executor.Execute(r.Context(), req.Operation, req.Variables)
	if err != nil {
		sendJSON(h.logger, w, errorResult(req.Operation, err), http.StatusOK)
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to encode operation data", "operation", req.Operation, "error", err)
		sendJSON(h.logger, w, errorResult(req.Operation, err), http.StatusOK)
		return
	}

	sendJSON(h.logger, w, api.Result{Data: raw}, http.StatusOK)
}

// errorResult превращает ошибку в результат с единственной ошибкой.
// Внутренние ошибки не раскрываются клиенту.
func errorResult(op api.Operation, err error) api.Result {
	message := "internal server error"
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			message = err.Error()
			break
		}
	}
	return api.Result{Errors: []api.GraphError{{Message: message, Path: []string{string(op)}}}}
}
