// Package store holds the local notebook state and applies actions to it.
package store

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/models"
)

//go:generate moq -out store_mock.go . Dispatcher View

// Dispatcher принимает действия
type Dispatcher interface {
	Dispatch(action actions.Action)
}

// View доступ на чтение к текущему ноутбуку. Возвращаемые значения: копии.
type View interface {
	FilePath() string
	CellOrder() []string
	Cell(cellID string) (models.Cell, bool)
	Notebook() *models.Notebook
}

// Middleware вызывается после применения действия к состоянию
type Middleware func(s *Store, action actions.Action)

// Store локальное состояние ноутбука.
// Reducer выполняется под мьютексом, middleware: после, без блокировки,
// поэтому middleware может снова вызывать Dispatch.
type Store struct {
	notebook    *models.Notebook
	logger      *slog.Logger
	filePath    string
	middlewares []Middleware
	mu          sync.RWMutex
}

var (
	_ Dispatcher = (*Store)(nil)
	_ View       = (*Store)(nil)
)

// New создает store с пустым ноутбуком
func New(logger *slog.Logger, middlewares ...Middleware) *Store {
	return &Store{
		notebook:    models.NewNotebook(),
		logger:      logger,
		middlewares: middlewares,
	}
}

// Use добавляет middleware в конец цепочки
func (s *Store) Use(mw Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middlewares = append(s.middlewares, mw)
}

// Dispatch применяет действие и запускает цепочку middleware.
// Отклоненная вставка (например, с уже занятым NewID) до middleware не доходит.
func (s *Store) Dispatch(action actions.Action) {
	action = assignCellID(action)

	s.mu.Lock()
	applied := s.reduce(action)
	chain := slices.Clone(s.middlewares)
	s.mu.Unlock()

	if !applied {
		return
	}

	for _, mw := range chain {
		mw(s, action)
	}
}

// FilePath returns the path of the loaded notebook.
func (s *Store) FilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filePath
}

// CellOrder returns a copy of the current cell order.
func (s *Store) CellOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notebook.CellOrder)
}

// Cell returns a copy of the cell stored under id.
func (s *Store) Cell(id string) (models.Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.notebook.Cell(id)
	if !ok {
		return models.Cell{}, false
	}
	return c.Clone(), true
}

// Notebook returns a deep copy of the current notebook.
func (s *Store) Notebook() *models.Notebook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notebook.Clone()
}

// assignCellID выдает локальный id вставкам без NewID, чтобы middleware видели его
func assignCellID(action actions.Action) actions.Action {
	switch a := action.(type) {
	case actions.CreateCellAbove:
		if a.NewID == "" {
			a.NewID = uuid.NewString()
		}
		return a
	case actions.CreateCellBelow:
		if a.NewID == "" {
			a.NewID = uuid.NewString()
		}
		return a
	}
	return action
}
