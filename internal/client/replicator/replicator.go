// Package replicator applies remote cell-order and cell-source events to the
// local notebook store.
package replicator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	gateway "github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/convert"
	"github.com/nteract/mythic-rtc/internal/client/idmap"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/store"
	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// Store то, что репликатору нужно от локального store
type Store interface {
	store.View
	store.Dispatcher
}

// ErrStreamClosed returned by Run when the backend ends a subscription
var ErrStreamClosed = errors.New("subscription closed by backend")

// Метки событий для метрик
const (
	eventInserted = "inserted"
	eventRemoved  = "removed"
	eventMoved    = "moved"
	eventReplaced = "replaced"
	eventSource   = "source"
)

// Replicator подписывается на события ноутбука и превращает их
// в локальные действия с origin=remote
type Replicator struct {
	gateway    gateway.Gateway
	store      Store
	ids        *idmap.Map
	metrics    *metrics.Metrics
	logger     *slog.Logger
	orderSub   gateway.Subscription
	sourceSub  gateway.Subscription
	notebookID string
}

// New создает Replicator для ноутбука notebookID
func New(gw gateway.Gateway, st Store, ids *idmap.Map, m *metrics.Metrics, logger *slog.Logger, notebookID string) *Replicator {
	return &Replicator{
		gateway:    gw,
		store:      st,
		ids:        ids,
		metrics:    m,
		logger:     logger.With("notebook_id", notebookID),
		notebookID: notebookID,
	}
}

// Start открывает подписки cellOrder и cellSource.
// ctx определяет время жизни подписок.
func (r *Replicator) Start(ctx context.Context) error {
	vars := api.SubscriptionVariables{NotebookID: r.notebookID}

	orderSub, err := r.gateway.Subscribe(ctx, api.SubCellOrder, vars)
	if err != nil {
		return fmt.Errorf("failed to subscribe to cell order: %w", err)
	}
	sourceSub, err := r.gateway.Subscribe(ctx, api.SubCellSource, vars)
	if err != nil {
		_ = orderSub.Close()
		return fmt.Errorf("failed to subscribe to cell source: %w", err)
	}

	r.orderSub, r.sourceSub = orderSub, sourceSub
	r.logger.Info("Replicator subscribed")
	return nil
}

// Run обрабатывает события, пока ctx не отменен или одна из подписок
// не завершилась. События одной подписки обрабатываются строго
// последовательно. Если Start еще не вызывался, Run вызывает его сам.
func (r *Replicator) Run(ctx context.Context) error {
	if r.orderSub == nil {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.consume(gCtx, r.orderSub, r.handleCellOrder)
	})
	g.Go(func() error {
		return r.consume(gCtx, r.sourceSub, r.handleCellSource)
	})

	err := g.Wait()
	r.logger.Info("Replicator stopped", "error", err)
	return err
}

func (r *Replicator) consume(ctx context.Context, sub gateway.Subscription, handle func(context.Context, api.Result)) error {
	defer func() {
		_ = sub.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					return err
				}
				return ErrStreamClosed
			}
			handle(ctx, res)
		}
	}
}

func (r *Replicator) handleCellOrder(ctx context.Context, res api.Result) {
	var data api.CellOrderData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		r.logger.Warn("Malformed cell order event", "error", err)
		return
	}

	ev, err := convert.FromWireCellOrderEvent(data.CellOrder)
	if err != nil {
		r.logger.Warn("Unknown cell order event", "error", err)
		return
	}

	switch e := ev.(type) {
	case models.CellInserted:
		r.onInserted(ctx, e)
	case models.CellRemoved:
		r.onRemoved(e)
	case models.CellMoved:
		r.onMoved(e)
	case models.CellReplaced:
		r.metrics.Event(eventReplaced, metrics.ResultIgnored)
		r.logger.Warn("Cell replace events are not supported", "remote_id", e.ID, "local", e.Local)
	}
}

// onInserted загружает ячейку и вставляет ее под ячейкой в позиции pos-1
// (или над первой ячейкой при pos = 0)
func (r *Replicator) onInserted(ctx context.Context, e models.CellInserted) {
	if _, known := r.ids.LookupLocal(e.ID); known {
		r.metrics.Event(eventInserted, metrics.ResultIgnored)
		r.logger.Debug("Insert of known cell ignored", "remote_id", e.ID)
		return
	}

	var data api.CellData
	vars := api.CellVariables{NotebookID: r.notebookID, CellID: e.ID}
	if err := r.gateway.Execute(ctx, api.OpCell, vars, &data); err != nil || data.Cell == nil {
		r.metrics.Event(eventInserted, metrics.ResultFailure)
		r.logger.Warn("Failed to fetch inserted cell", "remote_id", e.ID, "error", err)
		return
	}

	cell, err := convert.FromWireCell(*data.Cell)
	if err != nil {
		r.metrics.Event(eventInserted, metrics.ResultFailure)
		r.logger.Warn("Failed to decode inserted cell", "remote_id", e.ID, "error", err)
		return
	}

	order := r.store.CellOrder()
	if e.Pos > 0 && e.Pos <= len(order) {
		r.store.Dispatch(actions.CreateCellBelow{
			ID:           order[e.Pos-1],
			Cell:         cell,
			Origin:       actions.OriginRemote,
			RemoteCellID: e.ID,
		})
	} else {
		var anchor string
		if len(order) > 0 {
			anchor = order[0]
		}
		r.store.Dispatch(actions.CreateCellAbove{
			ID:           anchor,
			Cell:         cell,
			Origin:       actions.OriginRemote,
			RemoteCellID: e.ID,
		})
	}
	r.metrics.Event(eventInserted, metrics.ResultApplied)
}

func (r *Replicator) onRemoved(e models.CellRemoved) {
	order := r.store.CellOrder()
	if e.Pos < 0 || e.Pos >= len(order) {
		r.metrics.Event(eventRemoved, metrics.ResultIgnored)
		r.logger.Warn("Removed position out of range", "pos", e.Pos, "cells", len(order))
		return
	}

	r.store.Dispatch(actions.DeleteCell{ID: order[e.Pos], Origin: actions.OriginRemote})
	r.metrics.Event(eventRemoved, metrics.ResultApplied)
}

func (r *Replicator) onMoved(e models.CellMoved) {
	order := r.store.CellOrder()
	inRange := func(pos int) bool { return pos >= 0 && pos < len(order) }
	if !inRange(e.PosFrom) || !inRange(e.PosTo) || e.PosFrom == e.PosTo {
		r.metrics.Event(eventMoved, metrics.ResultIgnored)
		r.logger.Warn("Move positions out of range", "pos_from", e.PosFrom, "pos_to", e.PosTo, "cells", len(order))
		return
	}

	r.store.Dispatch(actions.MoveCell{
		ID:     order[e.PosFrom],
		DestID: order[e.PosTo],
		Above:  e.PosTo < e.PosFrom,
		Origin: actions.OriginRemote,
	})
	r.metrics.Event(eventMoved, metrics.ResultApplied)
}

func (r *Replicator) handleCellSource(_ context.Context, res api.Result) {
	var data api.CellSourceData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		r.logger.Warn("Malformed cell source event", "error", err)
		return
	}

	ev := convert.FromWireCellSourceEvent(data.CellSource)
	if ev.Type != models.DiffReplace {
		r.metrics.Event(eventSource, metrics.ResultIgnored)
		r.logger.Warn("Only replace diffs are applied", "remote_id", ev.ID, "type", ev.Type)
		return
	}

	r.store.Dispatch(actions.SetInCell{
		ID:     r.ids.LocalOrRemote(ev.ID),
		Path:   []string{"source"},
		Value:  ev.Diff,
		Origin: actions.OriginRemote,
	})
	r.metrics.Event(eventSource, metrics.ResultApplied)
}
