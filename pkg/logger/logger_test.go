package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_AddsRequestAttributes(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { SetDefault(prev) })

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-9")
	ctx = context.WithValue(ctx, ServiceKey, "stays")

	InfoContext(ctx, "booking created", "nights", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "booking created", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "user-9", line["user_id"])
	assert.Equal(t, "stays", line["service"])
	assert.EqualValues(t, 3, line["nights"])
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, output(""))

	_, isFile := output(filepath.Join(t.TempDir(), "stays.log")).(*os.File)
	assert.False(t, isFile, "file logging should tee through lumberjack")
}
