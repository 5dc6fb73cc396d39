// Package recorder turns local notebook edits into backend mutations and keeps
// the identifier map current.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	gateway "github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/convert"
	"github.com/nteract/mythic-rtc/internal/client/idmap"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// Recorder записывает локальные изменения на backend.
// Каждый метод возвращает канал, который отдает не более одного
// последующего действия и закрывается. Ошибки сети не возвращаются вызывающему:
// они логируются, учитываются в метриках и пишутся в journal (если задан).
type Recorder struct {
	gateway gateway.Gateway
	ids     *idmap.Map
	journal storage.Journal
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New создает Recorder. journal может быть nil.
func New(gw gateway.Gateway, ids *idmap.Map, m *metrics.Metrics, journal storage.Journal, logger *slog.Logger) *Recorder {
	return &Recorder{
		gateway: gw,
		ids:     ids,
		journal: journal,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordInsertCell отправляет insertCell и связывает localID с id, выданным backend
func (r *Recorder) RecordInsertCell(ctx context.Context, localID string, insertAt int, cell models.Cell) <-chan actions.Action {
	return r.run(func() (actions.Action, error) {
		input, err := convert.ToWireCell(cell)
		if err != nil {
			return nil, r.fail(ctx, models.OpInsertCell, localID, "", err)
		}

		var data api.InsertCellData
		vars := api.InputVariables[api.InsertCellInput]{
			Input: api.InsertCellInput{Cell: input, InsertAt: insertAt},
		}
		if err := r.gateway.Execute(ctx, api.OpInsertCell, vars, &data); err != nil {
			return nil, r.fail(ctx, models.OpInsertCell, localID, "", err)
		}
		if data.InsertCell.ID == "" {
			return nil, r.fail(ctx, models.OpInsertCell, localID, "", fmt.Errorf("backend returned empty cell id"))
		}

		r.ids.Put(localID, data.InsertCell.ID)
		r.metrics.Record(models.OpInsertCell, metrics.ResultSuccess)
		r.logger.Debug("Cell insert recorded", "local_id", localID, "remote_id", data.InsertCell.ID, "insert_at", insertAt)

		return actions.UpdateCellMap{LocalID: localID, RemoteID: data.InsertCell.ID}, nil
	})
}

// RecordDeleteCell отправляет deleteCell. Ячейка без remote id существует
// только локально, поэтому запрос не отправляется.
func (r *Recorder) RecordDeleteCell(ctx context.Context, localID string) <-chan actions.Action {
	return r.run(func() (actions.Action, error) {
		remoteID, ok := r.ids.LookupRemote(localID)
		if !ok {
			r.metrics.Record(models.OpDeleteCell, metrics.ResultSkipped)
			r.logger.Debug("Delete of unmapped cell not recorded", "local_id", localID)
			return nil, nil
		}

		if err := r.gateway.Execute(ctx, api.OpDeleteCell, api.DeleteCellVariables{ID: remoteID}, nil); err != nil {
			return nil, r.fail(ctx, models.OpDeleteCell, localID, remoteID, err)
		}

		r.ids.RemoveByLocal(localID)
		r.metrics.Record(models.OpDeleteCell, metrics.ResultSuccess)
		r.logger.Debug("Cell delete recorded", "local_id", localID, "remote_id", remoteID)

		return actions.DeleteCellFromMap{LocalID: localID}, nil
	})
}

// RecordCellContent отправляет полный текст ячейки как patch типа replace.
// Для не подтвержденных вставок используется локальный id.
func (r *Recorder) RecordCellContent(ctx context.Context, localID, source string) <-chan actions.Action {
	return r.run(func() (actions.Action, error) {
		remoteID := r.ids.RemoteOrLocal(localID)

		vars := api.InputVariables[api.PatchCellSourceInput]{
			Input: api.PatchCellSourceInput{ID: remoteID, Type: api.DiffReplace, Diff: source},
		}
		if err := r.gateway.Execute(ctx, api.OpPatchCellSource, vars, nil); err != nil {
			return nil, r.fail(ctx, models.OpCellContent, localID, remoteID, err)
		}

		r.metrics.Record(models.OpCellContent, metrics.ResultSuccess)
		return nil, nil
	})
}

// run выполняет fn в отдельной горутине и отдает результат через канал
func (r *Recorder) run(fn func() (actions.Action, error)) <-chan actions.Action {
	out := make(chan actions.Action, 1)
	go func() {
		defer close(out)
		action, err := fn()
		if err != nil || action == nil {
			return
		}
		out <- action
	}()
	return out
}

// fail логирует ошибку, учитывает ее в метриках и пишет в journal
func (r *Recorder) fail(ctx context.Context, op, localID, remoteID string, err error) error {
	r.metrics.Record(op, metrics.ResultFailure)
	r.logger.Warn("Failed to record edit", "operation", op, "local_id", localID, "remote_id", remoteID, "error", err)

	if r.journal != nil {
		entry := &models.FailedOperation{
			At:        r.now(),
			Operation: op,
			LocalID:   localID,
			RemoteID:  remoteID,
			Error:     err.Error(),
		}
		// журнал пишется и после отмены ctx
		if jerr := r.journal.RecordFailure(context.WithoutCancel(ctx), entry); jerr != nil {
			r.logger.Error("Failed to journal failed edit", "operation", op, "error", jerr)
		}
	}
	return err
}
