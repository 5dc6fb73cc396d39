// Package collab owns the state of one collaboration session and executes
// the collaboration actions produced by the recording middleware.
package collab

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	gateway "github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/driver"
	"github.com/nteract/mythic-rtc/internal/client/idmap"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/middleware"
	"github.com/nteract/mythic-rtc/internal/client/recorder"
	"github.com/nteract/mythic-rtc/internal/client/replicator"
	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/client/store"
	"github.com/nteract/mythic-rtc/internal/models"
)

// SyncStatus состояние синхронизации локальной ячейки
type SyncStatus string

// SyncStatus константы
const (
	// StatusSynced ячейка связана с remote id
	StatusSynced SyncStatus = "synced"
	// StatusPending вставка еще не подтверждена backend
	StatusPending SyncStatus = "pending"
)

// Store store, к которому подключается сессия
type Store interface {
	replicator.Store
	Use(mw store.Middleware)
}

// Deps зависимости сессии. Journal и Sessions могут быть nil.
type Deps struct {
	Gateway  gateway.Gateway
	Metrics  *metrics.Metrics
	Journal  storage.Journal
	Sessions storage.SessionStorage
	Logger   *slog.Logger
}

// Session контекст совместной работы: словарь идентификаторов,
// driver и recorder одного ноутбука.
type Session struct {
	ctx      context.Context
	ids      *idmap.Map
	driver   *driver.Driver
	recorder *recorder.Recorder
	journal  storage.Journal
	logger   *slog.Logger
	cancel   context.CancelFunc
	queue    chan func(ctx context.Context)
	wg       sync.WaitGroup
	loaded   atomic.Bool
}

const recordQueueSize = 256

// New создает сессию и подключает к st recording middleware
// и обработчик действий совместной работы.
func New(st Store, deps Deps) *Session {
	m := deps.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ids := idmap.New()
	s := &Session{
		ctx:      ctx,
		cancel:   cancel,
		ids:      ids,
		driver:   driver.New(deps.Gateway, st, ids, m, deps.Sessions, deps.Logger.With("component", "driver")),
		recorder: recorder.New(deps.Gateway, ids, m, deps.Journal, deps.Logger.With("component", "recorder")),
		journal:  deps.Journal,
		logger:   deps.Logger,
		queue:    make(chan func(ctx context.Context), recordQueueSize),
	}
	s.goAsync(s.drainRecords)

	st.Use(middleware.Recording(deps.Logger))
	st.Use(s.handle)
	return s
}

// IsLoaded reports whether the session is joined.
func (s *Session) IsLoaded() bool {
	return s.loaded.Load()
}

// State returns the driver state.
func (s *Session) State() driver.State {
	return s.driver.State()
}

// NotebookID returns the backend id of the joined notebook.
func (s *Session) NotebookID() string {
	return s.driver.NotebookID()
}

// RemoteID returns the remote id of a local cell.
func (s *Session) RemoteID(localID string) (string, bool) {
	return s.ids.LookupRemote(localID)
}

// SyncStatus сообщает, подтверждена ли ячейка backend
func (s *Session) SyncStatus(localID string) SyncStatus {
	if s.ids.Contains(localID) {
		return StatusSynced
	}
	return StatusPending
}

// Pending возвращает изменения, которые не удалось записать на backend
func (s *Session) Pending(ctx context.Context) ([]*models.FailedOperation, error) {
	if s.journal == nil {
		return nil, nil
	}
	ops, err := s.journal.ListFailures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}
	return ops, nil
}

// Leave выходит из сессии
func (s *Session) Leave(ctx context.Context) error {
	return s.driver.Leave(ctx)
}

// Close отменяет незавершенные операции и выходит из сессии, если она активна
func (s *Session) Close(ctx context.Context) error {
	s.cancel()
	s.wg.Wait()
	if s.driver.State() != driver.StateJoined {
		return nil
	}
	return s.driver.Leave(ctx)
}

// handle выполняет действия совместной работы
func (s *Session) handle(st *store.Store, action actions.Action) {
	switch a := action.(type) {
	case actions.JoinSession:
		s.goAsync(func(ctx context.Context) {
			// ошибка уже отправлена как JoinSessionFailed
			_ = s.driver.Join(ctx, a.FilePath, a.Notebook)
		})

	case actions.LeaveSession:
		s.goAsync(func(ctx context.Context) {
			if err := s.driver.Leave(ctx); err != nil {
				s.logger.Warn("Failed to leave collaboration session", "error", err)
			}
		})

	case actions.RecordInsertCell:
		s.enqueue(st, a, func(ctx context.Context) <-chan actions.Action {
			return s.recorder.RecordInsertCell(ctx, a.ID, a.InsertAt, a.Cell)
		})

	case actions.RecordDeleteCell:
		s.enqueue(st, a, func(ctx context.Context) <-chan actions.Action {
			return s.recorder.RecordDeleteCell(ctx, a.ID)
		})

	case actions.RecordCellContent:
		s.enqueue(st, a, func(ctx context.Context) <-chan actions.Action {
			return s.recorder.RecordCellContent(ctx, a.ID, a.Value)
		})

	case actions.UpdateCellMap:
		s.ids.Put(a.LocalID, a.RemoteID)

	case actions.DeleteCellFromMap:
		s.ids.RemoveByLocal(a.LocalID)

	case actions.JoinSessionSucceeded:
		s.loaded.Store(true)

	case actions.JoinSessionFailed, actions.LeaveSessionSucceeded:
		s.loaded.Store(false)
	}
}

// enqueue ставит запись в очередь. Записи выполняются по одной в порядке
// правок, и следующая начинается после того, как follow-up предыдущей
// применен к store, поэтому patch новой ячейки видит ее remote id.
func (s *Session) enqueue(st *store.Store, action actions.Action, record func(ctx context.Context) <-chan actions.Action) {
	op := func(ctx context.Context) {
		for follow := range record(ctx) {
			st.Dispatch(follow)
		}
	}
	select {
	case s.queue <- op:
	case <-s.ctx.Done():
		s.logger.Warn("Session closed, edit not recorded", "action", action.Type())
	}
}

func (s *Session) drainRecords(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.queue:
			op(ctx)
		}
	}
}

func (s *Session) goAsync(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}
