// Package service resolves schema operations against notebook storage and
// publishes the resulting cell events to the hub.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/metrics"
	"github.com/nteract/mythic-rtc/internal/server/storage"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// Service выполняет queries, mutations и открывает подписки
type Service struct {
	storage storage.NotebookStorage
	hub     *hub.Hub
	metrics *metrics.Metrics
	logger  *slog.Logger

	// notebookID -> *sync.Mutex
	locks sync.Map
}

// New создает Service
func New(st storage.NotebookStorage, h *hub.Hub, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		storage: st,
		hub:     h,
		metrics: m,
		logger:  logger,
	}
}

// Execute выполняет query или mutation от имени сессии из ctx.
// Результат: объект data с единственным ключом, именем операции.
func (s *Service) Execute(ctx context.Context, op api.Operation, variables json.RawMessage) (any, error) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	data, err := s.execute(ctx, sess, op, variables)
	if err != nil {
		s.metrics.Operation(string(op), metrics.ResultFailure)
		s.logger.Warn("Operation failed", "operation", op, "session_id", sess.ID, "error", err)
		return nil, err
	}

	s.metrics.Operation(string(op), metrics.ResultSuccess)
	return data, nil
}

func (s *Service) execute(ctx context.Context, sess Session, op api.Operation, variables json.RawMessage) (any, error) {
	switch op {
	case api.OpNotebook:
		return s.notebook(ctx, sess, variables)
	case api.OpCell:
		return s.cell(ctx, sess, variables)
	case api.OpUpsertNotebook:
		return s.upsertNotebook(ctx, sess, variables)
	case api.OpInsertCell:
		return s.insertCell(ctx, sess, variables)
	case api.OpDeleteCell:
		return s.deleteCell(ctx, sess, variables)
	case api.OpPatchCellSource:
		return s.patchCellSource(ctx, sess, variables)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

// Subscribe открывает подписку cellOrder или cellSource на ноутбук сессии
func (s *Service) Subscribe(ctx context.Context, op api.Operation, variables json.RawMessage) (*hub.Subscriber, error) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	if !op.IsSubscription() {
		return nil, fmt.Errorf("%w: %q is not a subscription", ErrUnknownOperation, op)
	}

	var vars api.SubscriptionVariables
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}

	notebookID, err := s.sessionNotebook(ctx, sess)
	if err != nil {
		return nil, err
	}
	if vars.NotebookID != "" && vars.NotebookID != notebookID {
		return nil, fmt.Errorf("%w: notebook %s", ErrForbidden, vars.NotebookID)
	}

	return s.hub.Subscribe(hub.Topic{NotebookID: notebookID, Operation: op}, sess.ID), nil
}

// Unsubscribe закрывает подписку
func (s *Service) Unsubscribe(sub *hub.Subscriber) {
	s.hub.Unsubscribe(sub)
}

func (s *Service) notebook(ctx context.Context, sess Session, variables json.RawMessage) (*api.NotebookData, error) {
	var vars api.NotebookVariables
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}
	if vars.FilePath == "" {
		vars.FilePath = sess.FilePath
	}
	if vars.FilePath != sess.FilePath {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, vars.FilePath)
	}

	nb, err := s.storage.GetNotebook(ctx, vars.FilePath)
	if errors.Is(err, storage.ErrNotebookNotFound) {
		return &api.NotebookData{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &api.NotebookData{Notebook: nb}, nil
}

func (s *Service) cell(ctx context.Context, sess Session, variables json.RawMessage) (*api.CellData, error) {
	var vars api.CellVariables
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}

	notebookID, err := s.sessionNotebook(ctx, sess)
	if err != nil {
		return nil, err
	}
	if vars.NotebookID != "" && vars.NotebookID != notebookID {
		return nil, fmt.Errorf("%w: notebook %s", ErrForbidden, vars.NotebookID)
	}

	cell, err := s.storage.GetCell(ctx, notebookID, vars.CellID)
	if err != nil {
		return nil, err
	}
	return &api.CellData{Cell: cell}, nil
}

func (s *Service) upsertNotebook(ctx context.Context, sess Session, variables json.RawMessage) (*api.UpsertNotebookData, error) {
	var vars api.InputVariables[api.UpsertNotebookInput]
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}
	if vars.Input.FilePath != sess.FilePath {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, vars.Input.FilePath)
	}

	nb, created, err := s.storage.UpsertNotebook(ctx, vars.Input.FilePath, vars.Input.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Notebook upserted", "notebook_id", nb.ID, "file_path", sess.FilePath, "created", created, "cells", len(nb.Cells.Nodes))
	return &api.UpsertNotebookData{UpsertNotebook: api.UpsertNotebookPayload{Notebook: *nb}}, nil
}

func (s *Service) insertCell(ctx context.Context, sess Session, variables json.RawMessage) (*api.InsertCellData, error) {
	var vars api.InputVariables[api.InsertCellInput]
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}

	notebookID, err := s.sessionNotebook(ctx, sess)
	if err != nil {
		return nil, err
	}

	unlock := s.lockNotebook(notebookID)
	defer unlock()

	cell, pos, err := s.storage.InsertCell(ctx, notebookID, vars.Input.InsertAt, vars.Input.Cell)
	if err != nil {
		return nil, err
	}

	s.publish(notebookID, api.SubCellOrder, sess.ID, api.CellOrderData{CellOrder: api.CellOrderEventDef{
		Typename: api.TypeCellInsertedEvent,
		ID:       cell.ID,
		Pos:      pos,
	}})
	return &api.InsertCellData{InsertCell: *cell}, nil
}

func (s *Service) deleteCell(ctx context.Context, sess Session, variables json.RawMessage) (*api.DeleteCellData, error) {
	var vars api.DeleteCellVariables
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}

	notebookID, err := s.sessionNotebook(ctx, sess)
	if err != nil {
		return nil, err
	}

	unlock := s.lockNotebook(notebookID)
	defer unlock()

	pos, err := s.storage.DeleteCell(ctx, notebookID, vars.ID)
	if err != nil {
		return nil, err
	}

	s.publish(notebookID, api.SubCellOrder, sess.ID, api.CellOrderData{CellOrder: api.CellOrderEventDef{
		Typename: api.TypeCellRemovedEvent,
		Pos:      pos,
	}})
	return &api.DeleteCellData{DeleteCell: true}, nil
}

func (s *Service) patchCellSource(ctx context.Context, sess Session, variables json.RawMessage) (*api.PatchCellSourceData, error) {
	var vars api.InputVariables[api.PatchCellSourceInput]
	if err := decode(variables, &vars); err != nil {
		return nil, err
	}
	if vars.Input.Type != api.DiffReplace {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDiff, vars.Input.Type)
	}

	notebookID, err := s.sessionNotebook(ctx, sess)
	if err != nil {
		return nil, err
	}

	unlock := s.lockNotebook(notebookID)
	defer unlock()

	if err := s.storage.SetCellSource(ctx, notebookID, vars.Input.ID, vars.Input.Diff); err != nil {
		return nil, err
	}

	s.publish(notebookID, api.SubCellSource, sess.ID, api.CellSourceData{CellSource: api.CellSourceEventDef{
		ID:   vars.Input.ID,
		Type: api.DiffReplace,
		Diff: vars.Input.Diff,
	}})
	return &api.PatchCellSourceData{PatchCellSource: true}, nil
}

// sessionNotebook возвращает id ноутбука, к которому привязана сессия
func (s *Service) sessionNotebook(ctx context.Context, sess Session) (string, error) {
	id, err := s.storage.GetNotebookID(ctx, sess.FilePath)
	if err != nil {
		return "", fmt.Errorf("session notebook %s: %w", sess.FilePath, err)
	}
	return id, nil
}

// lockNotebook сериализует мутации ноутбука вместе с публикацией их событий:
// подписчики получают события в порядке фиксации.
func (s *Service) lockNotebook(notebookID string) func() {
	v, _ := s.locks.LoadOrStore(notebookID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) publish(notebookID string, op api.Operation, origin string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to encode event", "operation", op, "error", err)
		return
	}
	n := s.hub.Publish(hub.Topic{NotebookID: notebookID, Operation: op}, origin, api.Result{Data: data})
	s.logger.Debug("Event published", "notebook_id", notebookID, "operation", op, "subscribers", n)
}

func decode(variables json.RawMessage, v any) error {
	if len(variables) == 0 {
		return nil
	}
	if err := json.Unmarshal(variables, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVariables, err)
	}
	return nil
}
