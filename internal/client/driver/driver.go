// Package driver runs the collaboration session lifecycle: join uploads the
// local notebook, loads the canonical copy and starts replication; leave stops it.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	gateway "github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/convert"
	"github.com/nteract/mythic-rtc/internal/client/idmap"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/replicator"
	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/pkg/api"
)

var (
	// ErrAlreadyJoined returned by Join when a session is active or in progress
	ErrAlreadyJoined = errors.New("collaboration session already active")

	// ErrNotJoined returned by Leave when there is no joined session
	ErrNotJoined = errors.New("collaboration session not joined")
)

// State состояние сессии
type State int

// State константы
const (
	StateIdle State = iota
	StateJoining
	StateJoined
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeaving:
		return "leaving"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Driver управляет сессией совместной работы над одним ноутбуком
type Driver struct {
	gateway    gateway.Gateway
	store      replicator.Store
	sessions   storage.SessionStorage
	ids        *idmap.Map
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
	notebookID string
	state      State
	mu         sync.Mutex
}

// New создает Driver. sessions может быть nil.
func New(gw gateway.Gateway, st replicator.Store, ids *idmap.Map, m *metrics.Metrics, sessions storage.SessionStorage, logger *slog.Logger) *Driver {
	return &Driver{
		gateway:  gw,
		store:    st,
		sessions: sessions,
		ids:      ids,
		metrics:  m,
		logger:   logger,
	}
}

// State returns the current session state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// NotebookID returns the backend id of the joined notebook.
func (d *Driver) NotebookID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notebookID
}

// Join подключается к сессии для filePath:
// открывает сессию gateway, загружает локальный ноутбук через upsertNotebook,
// заменяет локальное содержимое каноническим (origin=remote), запускает
// репликацию и отправляет JoinSessionSucceeded. При любой ошибке отправляется
// JoinSessionFailed, и driver возвращается в Idle.
func (d *Driver) Join(ctx context.Context, filePath string, nb *models.Notebook) error {
	d.mu.Lock()
	if d.state != StateIdle {
		state := d.state
		d.mu.Unlock()
		return fmt.Errorf("%w: state %s", ErrAlreadyJoined, state)
	}
	d.state = StateJoining
	d.mu.Unlock()

	logger := d.logger.With("file_path", filePath)
	logger.Info("Joining collaboration session")

	notebookID, err := d.join(ctx, filePath, nb, logger)
	if err != nil {
		d.mu.Lock()
		d.state = StateIdle
		d.mu.Unlock()

		d.metrics.Session("join", metrics.ResultFailure)
		logger.Error("Failed to join collaboration session", "error", err)
		d.store.Dispatch(actions.JoinSessionFailed{Err: err})
		return err
	}

	d.metrics.Session("join", metrics.ResultSuccess)
	logger.Info("Joined collaboration session", "notebook_id", notebookID)
	d.store.Dispatch(actions.JoinSessionSucceeded{NotebookID: notebookID})
	return nil
}

func (d *Driver) join(ctx context.Context, filePath string, nb *models.Notebook, logger *slog.Logger) (string, error) {
	if err := d.gateway.Start(ctx, filePath); err != nil {
		return "", fmt.Errorf("failed to start gateway: %w", err)
	}

	if nb == nil {
		nb = models.NewNotebook()
	}
	content, err := convert.ToWireNotebook(nb)
	if err != nil {
		return "", fmt.Errorf("failed to serialize notebook: %w", err)
	}

	var data api.UpsertNotebookData
	vars := api.InputVariables[api.UpsertNotebookInput]{
		Input: api.UpsertNotebookInput{FilePath: filePath, Content: content},
	}
	if err := d.gateway.Execute(ctx, api.OpUpsertNotebook, vars, &data); err != nil {
		return "", fmt.Errorf("failed to upload notebook: %w", err)
	}

	remote, err := convert.FromWireNotebook(data.UpsertNotebook.Notebook)
	if err != nil {
		return "", fmt.Errorf("failed to decode canonical notebook: %w", err)
	}
	notebookID := data.UpsertNotebook.Notebook.ID

	// загруженные ячейки получают remote id в качестве локального
	d.ids.Reset()
	for _, id := range remote.CellOrder {
		d.ids.Put(id, id)
	}
	d.store.Dispatch(actions.FetchContentFulfilled{
		FilePath: filePath,
		Notebook: remote,
		Origin:   actions.OriginRemote,
	})

	// подписки живут дольше ctx вызова Join
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rep := replicator.New(d.gateway, d.store, d.ids, d.metrics, d.logger, notebookID)
	if err := rep.Start(runCtx); err != nil {
		cancel()
		d.ids.Reset()
		return "", fmt.Errorf("failed to start replicator: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := rep.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.metrics.Session("replicate", metrics.ResultFailure)
			logger.Error("Replicator stopped unexpectedly", "error", err)
		}
	}()

	d.mu.Lock()
	d.state = StateJoined
	d.notebookID = notebookID
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	if d.sessions != nil {
		rec := &models.SessionRecord{FilePath: filePath, NotebookID: notebookID, JoinedAt: time.Now()}
		if err := d.sessions.SaveSession(ctx, rec); err != nil {
			logger.Warn("Failed to save session record", "error", err)
		}
	}

	return notebookID, nil
}

// Leave останавливает репликацию, дожидается завершения подписок,
// очищает словарь идентификаторов и отправляет LeaveSessionSucceeded.
// Если ctx истекает раньше, завершение происходит в фоне.
func (d *Driver) Leave(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateJoined {
		state := d.state
		d.mu.Unlock()
		d.metrics.Session("leave", metrics.ResultFailure)
		return fmt.Errorf("%w: state %s", ErrNotJoined, state)
	}
	d.state = StateLeaving
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	d.logger.Info("Leaving collaboration session")
	cancel()

	select {
	case <-done:
		d.finishLeave()
		return nil
	case <-ctx.Done():
		go func() {
			<-done
			d.finishLeave()
		}()
		return fmt.Errorf("replicator still draining: %w", ctx.Err())
	}
}

func (d *Driver) finishLeave() {
	d.mu.Lock()
	d.state = StateIdle
	d.notebookID = ""
	d.cancel = nil
	d.done = nil
	d.mu.Unlock()

	d.ids.Reset()
	d.metrics.Session("leave", metrics.ResultSuccess)
	d.logger.Info("Left collaboration session")
	d.store.Dispatch(actions.LeaveSessionSucceeded{})
}
