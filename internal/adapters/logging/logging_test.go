package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	assert.Same(t, logger, logger.With(ports.F("k", "v")))
	assert.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, ports.LevelDebug, logger.Level())
}

func TestConsoleLogger_TextLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithClock(fixedClock))

	logger.Info(context.Background(), "step applied", ports.F("step", "docker:swarm"), ports.F("took", "1.2s"))

	assert.Equal(t, "2026-03-14 09:26:53 [INFO] step applied step=docker:swarm took=1.2s\n", buf.String())
}

func TestConsoleLogger_QuotesValuesWithSpaces(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false), WithLevelLabel(false))

	logger.Warn(context.Background(), "pull failed", ports.F("error", "exit status 1: could not resolve host"))

	assert.Equal(t, "pull failed error=\"exit status 1: could not resolve host\"\n", buf.String())
}

func TestConsoleLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown")
	logger.Error(ctx, "shown")

	assert.Equal(t, 2, strings.Count(buf.String(), "shown"))
	assert.NotContains(t, buf.String(), "hidden")

	logger.SetLevel(ports.LevelDebug)
	logger.Debug(ctx, "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestConsoleLogger_WithSharesOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	parent := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))
	child := parent.With(ports.F("run_id", "abc"))

	child.Info(context.Background(), "child")
	parent.Info(context.Background(), "parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[INFO] child run_id=abc", lines[0])
	assert.Equal(t, "[INFO] parent", lines[1])
}

func TestConsoleLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithJSONFormat(true), WithClock(fixedClock))

	logger.Error(context.Background(), "step failed", ports.F("error", errors.New("boom")), ports.F("exit", 1))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "step failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.InDelta(t, 1, entry["exit"], 0)
	assert.Equal(t, fixedTime.UTC().Format(time.RFC3339), entry["time"])
}
