package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/models"
)

func TestPending(t *testing.T) {
	failures := []*models.FailedOperation{
		{
			At:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ID:        "f1",
			Operation: models.OpCellContent,
			LocalID:   "cell-1",
			RemoteID:  "R1",
			Error:     "connection refused",
		},
	}

	tests := []struct {
		name        string
		failures    []*models.FailedOperation
		listErr     error
		opts        PendingOptions
		answer      string
		wantOut     []string
		wantCleared bool
		wantErr     bool
	}{
		{
			name:    "empty journal",
			wantOut: []string{"No pending changes."},
		},
		{
			name:     "lists failures",
			failures: failures,
			wantOut:  []string{"1 change(s)", "2026-01-02T03:04:05Z", "cell_content", "cell cell-1: connection refused"},
		},
		{
			name:        "clear confirmed",
			failures:    failures,
			opts:        PendingOptions{Clear: true},
			answer:      "yes",
			wantOut:     []string{"Journal cleared."},
			wantCleared: true,
		},
		{
			name:     "clear declined",
			failures: failures,
			opts:     PendingOptions{Clear: true},
			answer:   "n",
			wantOut:  []string{"Journal kept."},
		},
		{
			name:        "clear without prompt",
			failures:    failures,
			opts:        PendingOptions{Clear: true, Yes: true},
			wantOut:     []string{"Journal cleared."},
			wantCleared: true,
		},
		{
			name:    "list error",
			listErr: errors.New("bolt: closed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &storage.JournalMock{
				ListFailuresFunc: func(ctx context.Context) ([]*models.FailedOperation, error) {
					return tt.failures, tt.listErr
				},
				ClearFailuresFunc: func(ctx context.Context) error {
					return nil
				},
			}
			io, out := newTestIO(tt.answer)
			c := New(io, Deps{Journal: journal, Logger: testLogger()})

			err := c.Pending(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			assert.Equal(t, tt.wantCleared, len(journal.ClearFailuresCalls()) == 1)
			if tt.opts.Clear && !tt.opts.Yes {
				assert.Len(t, io.ReadInputCalls(), 1)
			} else {
				assert.Empty(t, io.ReadInputCalls())
			}
		})
	}
}

func TestPending_NoJournal(t *testing.T) {
	io, _ := newTestIO("")
	c := New(io, Deps{Logger: testLogger()})
	assert.ErrorIs(t, c.Pending(context.Background(), PendingOptions{}), ErrNoJournal)
}
