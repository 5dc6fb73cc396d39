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

func TestStatus(t *testing.T) {
	joinedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		record   *models.SessionRecord
		getErr   error
		failures []*models.FailedOperation
		listErr  error
		wantOut  []string
		wantErr  bool
	}{
		{
			name:    "joined before",
			record:  &models.SessionRecord{FilePath: "a.ipynb", NotebookID: "NB1", JoinedAt: joinedAt},
			wantOut: []string{"Notebook:    a.ipynb", "Backend id:  NB1", "Last joined: 2026-03-01T12:00:00Z"},
		},
		{
			name:    "never joined",
			getErr:  storage.ErrSessionNotFound,
			wantOut: []string{"a.ipynb has not been joined yet."},
		},
		{
			name:     "with pending changes",
			record:   &models.SessionRecord{FilePath: "a.ipynb", NotebookID: "NB1", JoinedAt: joinedAt},
			failures: []*models.FailedOperation{{ID: "1"}, {ID: "2"}},
			wantOut:  []string{"Pending: 2 change(s)"},
		},
		{
			name:    "journal error is a warning",
			record:  &models.SessionRecord{FilePath: "a.ipynb", NotebookID: "NB1", JoinedAt: joinedAt},
			listErr: errors.New("bolt: closed"),
			wantOut: []string{"Warning: failed to read journal"},
		},
		{
			name:    "storage error",
			getErr:  errors.New("bolt: closed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &storage.SessionStorageMock{
				GetSessionFunc: func(ctx context.Context, filePath string) (*models.SessionRecord, error) {
					assert.Equal(t, "a.ipynb", filePath)
					return tt.record, tt.getErr
				},
			}
			journal := &storage.JournalMock{
				ListFailuresFunc: func(ctx context.Context) ([]*models.FailedOperation, error) {
					return tt.failures, tt.listErr
				},
			}
			io, out := newTestIO("")
			c := New(io, Deps{Sessions: sessions, Journal: journal, Logger: testLogger()})

			err := c.Status(context.Background(), "a.ipynb")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			if len(tt.failures) == 0 {
				assert.NotContains(t, out.String(), "Pending:")
			}
		})
	}
}

func TestStatus_NoSessions(t *testing.T) {
	io, _ := newTestIO("")
	c := New(io, Deps{Logger: testLogger()})
	assert.ErrorIs(t, c.Status(context.Background(), "a.ipynb"), ErrNoSessions)
}
