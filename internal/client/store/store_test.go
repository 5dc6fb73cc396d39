package store

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	nb := models.NewNotebook()
	for i, id := range ids {
		require.NoError(t, nb.InsertAt(i, id, models.NewCodeCell("src "+id)))
	}
	s := New(testLogger())
	s.Dispatch(actions.FetchContentFulfilled{FilePath: "demo.ipynb", Notebook: nb, Origin: actions.OriginLocal})
	return s
}

func TestStore_FetchContentFulfilled(t *testing.T) {
	s := loadedStore(t, "a", "b")

	assert.Equal(t, "demo.ipynb", s.FilePath())
	assert.Equal(t, []string{"a", "b"}, s.CellOrder())

	// accessors return copies
	order := s.CellOrder()
	order[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.CellOrder())
}

func TestStore_CreateCell(t *testing.T) {
	tests := []struct {
		action actions.Action
		name   string
		want   []string
	}{
		{
			name:   "above anchor",
			action: actions.CreateCellAbove{ID: "b", NewID: "n", Cell: models.NewCodeCell("")},
			want:   []string{"a", "n", "b"},
		},
		{
			name:   "below anchor",
			action: actions.CreateCellBelow{ID: "a", NewID: "n", Cell: models.NewCodeCell("")},
			want:   []string{"a", "n", "b"},
		},
		{
			name:   "above missing anchor goes to head",
			action: actions.CreateCellAbove{ID: "zz", NewID: "n", Cell: models.NewCodeCell("")},
			want:   []string{"n", "a", "b"},
		},
		{
			name:   "below missing anchor goes to tail",
			action: actions.CreateCellBelow{ID: "zz", NewID: "n", Cell: models.NewMarkdownCell("")},
			want:   []string{"a", "b", "n"},
		},
		{
			name:   "duplicate id ignored",
			action: actions.CreateCellBelow{ID: "a", NewID: "b", Cell: models.NewCodeCell("")},
			want:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedStore(t, "a", "b")
			s.Dispatch(tt.action)
			assert.Equal(t, tt.want, s.CellOrder())
			assert.NoError(t, s.Notebook().Validate())
		})
	}
}

func TestStore_CreateCell_AssignsID(t *testing.T) {
	s := loadedStore(t, "a")

	var seen actions.Action
	s.Use(func(_ *Store, action actions.Action) {
		seen = action
	})

	s.Dispatch(actions.CreateCellBelow{ID: "a", Cell: models.NewCodeCell("x")})

	below, ok := seen.(actions.CreateCellBelow)
	require.True(t, ok)
	require.NotEmpty(t, below.NewID)
	assert.Equal(t, []string{"a", below.NewID}, s.CellOrder())
}

func TestStore_DeleteAndMove(t *testing.T) {
	s := loadedStore(t, "a", "b", "c")

	s.Dispatch(actions.DeleteCell{ID: "b"})
	assert.Equal(t, []string{"a", "c"}, s.CellOrder())

	s.Dispatch(actions.DeleteCell{ID: "missing"})
	assert.Equal(t, []string{"a", "c"}, s.CellOrder())

	s.Dispatch(actions.MoveCell{ID: "c", DestID: "a", Above: true})
	assert.Equal(t, []string{"c", "a"}, s.CellOrder())
}

func TestStore_SetInCell(t *testing.T) {
	s := loadedStore(t, "a")

	s.Dispatch(actions.SetInCell{ID: "a", Path: []string{"source"}, Value: "y = 2"})
	s.Dispatch(actions.SetInCell{ID: "a", Path: []string{"metadata", "collapsed"}, Value: true})
	s.Dispatch(actions.SetInCell{ID: "a", Path: []string{"execution_count"}, Value: 4})
	// некорректные значения игнорируются
	s.Dispatch(actions.SetInCell{ID: "a", Path: []string{"source"}, Value: 42})
	s.Dispatch(actions.SetInCell{ID: "missing", Path: []string{"source"}, Value: "x"})

	cell, ok := s.Cell("a")
	require.True(t, ok)
	assert.Equal(t, "y = 2", cell.Source)
	assert.JSONEq(t, "true", string(cell.Metadata["collapsed"]))
	require.NotNil(t, cell.ExecutionCount)
	assert.Equal(t, 4, *cell.ExecutionCount)
}

func TestStore_MiddlewareOrderAndReentry(t *testing.T) {
	s := loadedStore(t, "a")

	var log []string
	s.Use(func(st *Store, action actions.Action) {
		log = append(log, "first:"+action.Type())
		// middleware видит состояние после применения действия
		if del, ok := action.(actions.DeleteCell); ok {
			_, exists := st.Cell(del.ID)
			assert.False(t, exists)
			st.Dispatch(actions.LeaveSession{})
		}
	})
	s.Use(func(_ *Store, action actions.Action) {
		log = append(log, "second:"+action.Type())
	})

	s.Dispatch(actions.DeleteCell{ID: "a"})

	assert.Equal(t, []string{
		"first:" + actions.TypeDeleteCell,
		"first:" + actions.TypeLeaveSession,
		"second:" + actions.TypeLeaveSession,
		"second:" + actions.TypeDeleteCell,
	}, log)
}

func TestStore_RejectedInsertSkipsMiddleware(t *testing.T) {
	s := loadedStore(t, "a", "b")

	var seen []string
	s.Use(func(_ *Store, action actions.Action) {
		seen = append(seen, action.Type())
	})

	s.Dispatch(actions.CreateCellBelow{ID: "b", NewID: "a", Cell: models.NewMarkdownCell("dup"), Origin: actions.OriginLocal})
	s.Dispatch(actions.CreateCellAbove{ID: "a", NewID: "b", Cell: models.NewMarkdownCell("dup"), Origin: actions.OriginLocal})

	assert.Empty(t, seen)
	assert.Equal(t, []string{"a", "b"}, s.CellOrder())
	cell, ok := s.Cell("a")
	require.True(t, ok)
	assert.Equal(t, "src a", cell.Source)

	// неприменимые удаления по-прежнему проходят через middleware
	s.Dispatch(actions.DeleteCell{ID: "missing"})
	assert.Equal(t, []string{actions.TypeDeleteCell}, seen)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := loadedStore(t, "a")
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(actions.CreateCellBelow{ID: "a", Cell: models.NewCodeCell("")})
			_ = s.Notebook()
		}()
	}
	wg.Wait()

	assert.Len(t, s.CellOrder(), 21)
	assert.NoError(t, s.Notebook().Validate())
}
