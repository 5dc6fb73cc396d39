package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/service"
	"github.com/nteract/mythic-rtc/pkg/api"
)

func startClient(t *testing.T, backend *testBackend, filePath string) *clientapi.Client {
	t.Helper()
	client := clientapi.NewClient(backend.server.URL, setupTestLogger())
	require.NoError(t, client.Start(context.Background(), filePath))
	return client
}

func upsert(t *testing.T, client *clientapi.Client, filePath string, sources ...string) api.NotebookDef {
	t.Helper()
	content := api.NotebookContentInput{}
	for _, src := range sources {
		content.Cells = append(content.Cells, api.CellInput{Code: &api.CodeCellInput{Source: src}})
	}
	var data api.UpsertNotebookData
	require.NoError(t, client.Execute(context.Background(), api.OpUpsertNotebook, api.InputVariables[api.UpsertNotebookInput]{
		Input: api.UpsertNotebookInput{FilePath: filePath, Content: content},
	}, &data))
	return data.UpsertNotebook.Notebook
}

func receive(t *testing.T, sub clientapi.Subscription) api.Result {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription ended: %v", sub.Err())
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return api.Result{}
}

// waitSubscribers ждет, пока handler зарегистрирует подписки в hub
func waitSubscribers(t *testing.T, backend *testBackend, topic hub.Topic, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return backend.hub.Len(topic) == n
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSubscribeHandler_DeliversOtherSessionsEdits(t *testing.T) {
	backend := setupBackend(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := startClient(t, backend, "a.ipynb")
	bob := startClient(t, backend, "a.ipynb")
	nb := upsert(t, alice, "a.ipynb", "x = 1")

	orderSub, err := bob.Subscribe(ctx, api.SubCellOrder, api.SubscriptionVariables{NotebookID: nb.ID})
	require.NoError(t, err)
	defer func() {
		_ = orderSub.Close()
	}()
	sourceSub, err := bob.Subscribe(ctx, api.SubCellSource, api.SubscriptionVariables{NotebookID: nb.ID})
	require.NoError(t, err)
	defer func() {
		_ = sourceSub.Close()
	}()

	waitSubscribers(t, backend, hub.Topic{NotebookID: nb.ID, Operation: api.SubCellOrder}, 1)
	waitSubscribers(t, backend, hub.Topic{NotebookID: nb.ID, Operation: api.SubCellSource}, 1)

	require.NoError(t, alice.Execute(ctx, api.OpPatchCellSource, api.InputVariables[api.PatchCellSourceInput]{
		Input: api.PatchCellSourceInput{ID: nb.Cells.Nodes[0].ID, Type: api.DiffReplace, Diff: "x = 2"},
	}, nil))

	var source api.CellSourceData
	require.NoError(t, json.Unmarshal(receive(t, sourceSub).Data, &source))
	assert.Equal(t, api.CellSourceEventDef{ID: nb.Cells.Nodes[0].ID, Type: api.DiffReplace, Diff: "x = 2"}, source.CellSource)

	var inserted api.InsertCellData
	require.NoError(t, alice.Execute(ctx, api.OpInsertCell, api.InputVariables[api.InsertCellInput]{
		Input: api.InsertCellInput{InsertAt: 0, Cell: api.CellInput{Raw: &api.TextCellInput{Source: "raw"}}},
	}, &inserted))

	var order api.CellOrderData
	require.NoError(t, json.Unmarshal(receive(t, orderSub).Data, &order))
	assert.Equal(t, api.CellOrderEventDef{
		Typename: api.TypeCellInsertedEvent,
		ID:       inserted.InsertCell.ID,
		Pos:      0,
	}, order.CellOrder)
}

func TestSubscribeHandler_ClientCloseUnsubscribes(t *testing.T) {
	backend := setupBackend(t, 8)
	ctx := context.Background()

	alice := startClient(t, backend, "a.ipynb")
	nb := upsert(t, alice, "a.ipynb")
	topic := hub.Topic{NotebookID: nb.ID, Operation: api.SubCellOrder}

	sub, err := alice.Subscribe(ctx, api.SubCellOrder, nil)
	require.NoError(t, err)
	waitSubscribers(t, backend, topic, 1)

	require.NoError(t, sub.Close())
	waitSubscribers(t, backend, topic, 0)
}

func TestSubscribeHandler_Rejected(t *testing.T) {
	backend := setupBackend(t, 8)
	ctx := context.Background()

	alice := startClient(t, backend, "a.ipynb")
	upsert(t, alice, "a.ipynb")

	sub, err := alice.Subscribe(ctx, api.SubCellOrder, api.SubscriptionVariables{NotebookID: "someone-else"})
	require.NoError(t, err, "rejection arrives on the stream")

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "stream must end without events")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end")
	}

	var execErr *clientapi.ExecuteError
	require.True(t, errors.As(sub.Err(), &execErr), "got %v", sub.Err())
	assert.Contains(t, execErr.Error(), service.ErrForbidden.Error())
}

func TestSubscribeHandler_Unauthorized(t *testing.T) {
	backend := setupBackend(t, 8)
	url := "ws" + strings.TrimPrefix(backend.server.URL, "http") + "/api/v1/subscribe"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		_ = conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
