package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceID(ctx))
	assert.Equal(t, "", TraceID(context.Background()))
}

func TestInitLoggerWritesTimerLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLogger(dir, "debug"))

	LogDuration(WithTraceID(context.Background(), "trace-1"), "TestFunc")()
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "timer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"func":"TestFunc"`)
	assert.Contains(t, string(data), `"trace_id":"trace-1"`)
}
