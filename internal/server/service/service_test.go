package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/metrics"
	"github.com/nteract/mythic-rtc/internal/server/storage"
	"github.com/nteract/mythic-rtc/internal/server/storage/sqlite"
	"github.com/nteract/mythic-rtc/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	svc     *Service
	metrics *metrics.Metrics
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	return setupServiceWithBuffer(t, 8)
}

func setupServiceWithBuffer(t *testing.T, bufferSize int) *fixture {
	t.Helper()
	st, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	m := metrics.New(nil)
	return &fixture{
		svc:     New(st, hub.New(bufferSize, m, testLogger()), m, testLogger()),
		metrics: m,
	}
}

func asSession(id, filePath string) context.Context {
	return WithSession(context.Background(), Session{ID: id, FilePath: filePath})
}

func vars(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func (f *fixture) upsert(t *testing.T, ctx context.Context, filePath string, sources ...string) api.NotebookDef {
	t.Helper()
	content := api.NotebookContentInput{}
	for _, src := range sources {
		content.Cells = append(content.Cells, api.CellInput{Code: &api.CodeCellInput{Source: src}})
	}
	data, err := f.svc.Execute(ctx, api.OpUpsertNotebook, vars(t, api.InputVariables[api.UpsertNotebookInput]{
		Input: api.UpsertNotebookInput{FilePath: filePath, Content: content},
	}))
	require.NoError(t, err)
	return data.(*api.UpsertNotebookData).UpsertNotebook.Notebook
}

func nextEvent(t *testing.T, sub *hub.Subscriber) api.Result {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	default:
		t.Fatal("no event published")
	}
	return api.Result{}
}

func TestService_UpsertConverges(t *testing.T) {
	f := setupService(t)
	alice := asSession("alice", "a.ipynb")
	bob := asSession("bob", "a.ipynb")

	first := f.upsert(t, alice, "a.ipynb", "x = 1")
	second := f.upsert(t, bob, "a.ipynb", "something else", "entirely")

	assert.Equal(t, first, second)
	require.Len(t, second.Cells.Nodes, 1)
	assert.Equal(t, "x = 1", second.Cells.Nodes[0].Source)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Operations.WithLabelValues(string(api.OpUpsertNotebook), metrics.ResultSuccess)))
}

func TestService_InsertCellPublishesToOtherSessions(t *testing.T) {
	f := setupService(t)
	alice := asSession("alice", "a.ipynb")
	bob := asSession("bob", "a.ipynb")
	nb := f.upsert(t, alice, "a.ipynb", "a", "b")

	aliceSub, err := f.svc.Subscribe(alice, api.SubCellOrder, vars(t, api.SubscriptionVariables{NotebookID: nb.ID}))
	require.NoError(t, err)
	bobSub, err := f.svc.Subscribe(bob, api.SubCellOrder, vars(t, api.SubscriptionVariables{NotebookID: nb.ID}))
	require.NoError(t, err)

	data, err := f.svc.Execute(alice, api.OpInsertCell, vars(t, api.InputVariables[api.InsertCellInput]{
		Input: api.InsertCellInput{InsertAt: 1, Cell: api.CellInput{Markdown: &api.TextCellInput{Source: "# new"}}},
	}))
	require.NoError(t, err)
	inserted := data.(*api.InsertCellData).InsertCell
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, api.TypeMarkdownCell, inserted.Typename)

	var ev api.CellOrderData
	require.NoError(t, json.Unmarshal(nextEvent(t, bobSub).Data, &ev))
	assert.Equal(t, api.CellOrderEventDef{Typename: api.TypeCellInsertedEvent, ID: inserted.ID, Pos: 1}, ev.CellOrder)
	assert.Empty(t, aliceSub.Events(), "origin session gets no echo")

	// вставленная ячейка доступна через query cell
	data, err = f.svc.Execute(bob, api.OpCell, vars(t, api.CellVariables{NotebookID: nb.ID, CellID: inserted.ID}))
	require.NoError(t, err)
	assert.Equal(t, "# new", data.(*api.CellData).Cell.Source)
}

func TestService_ConcurrentInsertsPublishInCommitOrder(t *testing.T) {
	const (
		writers = 8
		inserts = 5
	)
	f := setupServiceWithBuffer(t, writers*inserts)
	watcher := asSession("watcher", "a.ipynb")
	f.upsert(t, watcher, "a.ipynb")

	sub, err := f.svc.Subscribe(watcher, api.SubCellOrder, nil)
	require.NoError(t, err)

	insert := vars(t, api.InputVariables[api.InsertCellInput]{
		Input: api.InsertCellInput{InsertAt: 0, Cell: api.CellInput{Code: &api.CodeCellInput{}}},
	})

	var g errgroup.Group
	for w := range writers {
		ctx := asSession(fmt.Sprintf("writer-%d", w), "a.ipynb")
		g.Go(func() error {
			for range inserts {
				if _, err := f.svc.Execute(ctx, api.OpInsertCell, insert); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// порядок, который получит участник, применяя события по мере доставки
	var order []string
	for range writers * inserts {
		var ev api.CellOrderData
		require.NoError(t, json.Unmarshal(nextEvent(t, sub).Data, &ev))
		require.Equal(t, api.TypeCellInsertedEvent, ev.CellOrder.Typename)
		require.LessOrEqual(t, ev.CellOrder.Pos, len(order))
		order = slices.Insert(order, ev.CellOrder.Pos, ev.CellOrder.ID)
	}

	data, err := f.svc.Execute(watcher, api.OpNotebook, nil)
	require.NoError(t, err)
	var stored []string
	for _, c := range data.(*api.NotebookData).Notebook.Cells.Nodes {
		stored = append(stored, c.ID)
	}
	assert.Equal(t, stored, order)
}

func TestService_DeleteAndPatchPublish(t *testing.T) {
	f := setupService(t)
	alice := asSession("alice", "a.ipynb")
	bob := asSession("bob", "a.ipynb")
	nb := f.upsert(t, alice, "a.ipynb", "a", "b")

	orderSub, err := f.svc.Subscribe(bob, api.SubCellOrder, nil)
	require.NoError(t, err)
	sourceSub, err := f.svc.Subscribe(bob, api.SubCellSource, nil)
	require.NoError(t, err)

	_, err = f.svc.Execute(alice, api.OpPatchCellSource, vars(t, api.InputVariables[api.PatchCellSourceInput]{
		Input: api.PatchCellSourceInput{ID: nb.Cells.Nodes[0].ID, Type: api.DiffReplace, Diff: "z = 3"},
	}))
	require.NoError(t, err)

	var src api.CellSourceData
	require.NoError(t, json.Unmarshal(nextEvent(t, sourceSub).Data, &src))
	assert.Equal(t, api.CellSourceEventDef{ID: nb.Cells.Nodes[0].ID, Type: api.DiffReplace, Diff: "z = 3"}, src.CellSource)

	data, err := f.svc.Execute(alice, api.OpDeleteCell, vars(t, api.DeleteCellVariables{ID: nb.Cells.Nodes[1].ID}))
	require.NoError(t, err)
	assert.True(t, data.(*api.DeleteCellData).DeleteCell)

	var order api.CellOrderData
	require.NoError(t, json.Unmarshal(nextEvent(t, orderSub).Data, &order))
	assert.Equal(t, api.CellOrderEventDef{Typename: api.TypeCellRemovedEvent, Pos: 1}, order.CellOrder)

	data, err = f.svc.Execute(bob, api.OpNotebook, vars(t, api.NotebookVariables{FilePath: "a.ipynb"}))
	require.NoError(t, err)
	got := data.(*api.NotebookData).Notebook
	require.NotNil(t, got)
	require.Len(t, got.Cells.Nodes, 1)
	assert.Equal(t, "z = 3", got.Cells.Nodes[0].Source)
}

func TestService_Errors(t *testing.T) {
	f := setupService(t)
	alice := asSession("alice", "a.ipynb")
	f.upsert(t, alice, "a.ipynb", "a")

	tests := []struct {
		name    string
		ctx     context.Context
		op      api.Operation
		vars    any
		wantErr error
	}{
		{
			name:    "no session",
			ctx:     context.Background(),
			op:      api.OpNotebook,
			wantErr: ErrNoSession,
		},
		{
			name:    "unknown operation",
			ctx:     alice,
			op:      "dropTables",
			wantErr: ErrUnknownOperation,
		},
		{
			name:    "subscription through execute",
			ctx:     alice,
			op:      api.SubCellOrder,
			wantErr: ErrUnknownOperation,
		},
		{
			name:    "malformed variables",
			ctx:     alice,
			op:      api.OpDeleteCell,
			vars:    []int{1},
			wantErr: ErrInvalidVariables,
		},
		{
			name: "upsert of another file",
			ctx:  alice,
			op:   api.OpUpsertNotebook,
			vars: api.InputVariables[api.UpsertNotebookInput]{
				Input: api.UpsertNotebookInput{FilePath: "b.ipynb"},
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "notebook of another file",
			ctx:     alice,
			op:      api.OpNotebook,
			vars:    api.NotebookVariables{FilePath: "b.ipynb"},
			wantErr: ErrForbidden,
		},
		{
			name:    "cell of another notebook",
			ctx:     alice,
			op:      api.OpCell,
			vars:    api.CellVariables{NotebookID: "other", CellID: "x"},
			wantErr: ErrForbidden,
		},
		{
			name:    "missing cell",
			ctx:     alice,
			op:      api.OpCell,
			vars:    api.CellVariables{CellID: "missing"},
			wantErr: storage.ErrCellNotFound,
		},
		{
			name:    "delete of missing cell",
			ctx:     alice,
			op:      api.OpDeleteCell,
			vars:    api.DeleteCellVariables{ID: "missing"},
			wantErr: storage.ErrCellNotFound,
		},
		{
			name: "positional patch",
			ctx:  alice,
			op:   api.OpPatchCellSource,
			vars: api.InputVariables[api.PatchCellSourceInput]{
				Input: api.PatchCellSourceInput{ID: "x", Type: api.DiffInsert, Diff: "a", Start1: 1},
			},
			wantErr: ErrUnsupportedDiff,
		},
		{
			name: "insert before session notebook exists",
			ctx:  asSession("bob", "b.ipynb"),
			op:   api.OpInsertCell,
			vars: api.InputVariables[api.InsertCellInput]{
				Input: api.InsertCellInput{Cell: api.CellInput{Raw: &api.TextCellInput{}}},
			},
			wantErr: storage.ErrNotebookNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.vars != nil {
				raw = vars(t, tt.vars)
			}
			_, err := f.svc.Execute(tt.ctx, tt.op, raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Subscribe_Errors(t *testing.T) {
	f := setupService(t)
	alice := asSession("alice", "a.ipynb")
	nb := f.upsert(t, alice, "a.ipynb")

	_, err := f.svc.Subscribe(context.Background(), api.SubCellOrder, nil)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = f.svc.Subscribe(alice, api.OpInsertCell, nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = f.svc.Subscribe(alice, api.SubCellSource, vars(t, api.SubscriptionVariables{NotebookID: "other"}))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Subscribe(asSession("bob", "b.ipynb"), api.SubCellSource, nil)
	assert.ErrorIs(t, err, storage.ErrNotebookNotFound)

	sub, err := f.svc.Subscribe(alice, api.SubCellSource, vars(t, api.SubscriptionVariables{NotebookID: nb.ID}))
	require.NoError(t, err)
	f.svc.Unsubscribe(sub)
	<-sub.Done()
}

func TestService_NotebookMissing(t *testing.T) {
	f := setupService(t)

	data, err := f.svc.Execute(asSession("alice", "a.ipynb"), api.OpNotebook, nil)
	require.NoError(t, err)
	assert.Nil(t, data.(*api.NotebookData).Notebook)
}

func TestService_StorageFailure(t *testing.T) {
	errDB := errors.New("disk full")
	st := &storage.NotebookStorageMock{
		GetNotebookIDFunc: func(ctx context.Context, filePath string) (string, error) {
			return "nb-1", nil
		},
		SetCellSourceFunc: func(ctx context.Context, notebookID, cellID, source string) error {
			return errDB
		},
	}
	m := metrics.New(nil)
	h := hub.New(1, m, testLogger())
	svc := New(st, h, m, testLogger())
	sub := h.Subscribe(hub.Topic{NotebookID: "nb-1", Operation: api.SubCellSource}, "bob")

	_, err := svc.Execute(asSession("alice", "a.ipynb"), api.OpPatchCellSource, vars(t, api.InputVariables[api.PatchCellSourceInput]{
		Input: api.PatchCellSourceInput{ID: "c", Type: api.DiffReplace, Diff: "x"},
	}))
	assert.ErrorIs(t, err, errDB)
	assert.Empty(t, sub.Events(), "failed mutation publishes nothing")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(string(api.OpPatchCellSource), metrics.ResultFailure)))
}
