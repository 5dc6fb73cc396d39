package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "empty", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "upper case", input: "WARN", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", FormatJSON)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("visible", "notebook_id", "nb-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "nb-1", entry["notebook_id"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "TEXT")
	require.NoError(t, err)

	logger.Info("joined", "file_path", "a.ipynb")
	assert.Contains(t, buf.String(), "msg=joined")
	assert.Contains(t, buf.String(), "file_path=a.ipynb")
}

func TestNew_AutoFallsBackToJSON(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, FormatJSON, resolveFormat(f, FormatAuto))
	assert.Equal(t, FormatJSON, resolveFormat(f, ""))

	var buf bytes.Buffer
	assert.Equal(t, FormatJSON, resolveFormat(&buf, FormatAuto))
	assert.Equal(t, FormatText, resolveFormat(&buf, FormatText))
}

func TestNew_Errors(t *testing.T) {
	var buf bytes.Buffer

	_, err := New(&buf, "loud", FormatJSON)
	assert.Error(t, err)

	_, err = New(&buf, "info", "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Error("nothing", "key", "value")
	})
}
