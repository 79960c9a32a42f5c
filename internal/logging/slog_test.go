package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "probe", "mode", "online")
	log.Info(ctx, "logged in", "role", "admin")
	log.Warn(ctx, "remote call failed, using local data", "kind", "network")
	log.Error(ctx, "close local database", "error", "busy")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=probe", "mode=online",
		"level=INFO", `msg="logged in"`, "role=admin",
		"level=WARN", "kind=network",
		"level=ERROR", "error=busy",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	child := log.With("component", "workorders")
	child.Info(context.TODO(), "saved", "code", "OS-2025-001")
	log.Info(context.TODO(), "root")

	out := buf.String()
	assert.Contains(t, out, "msg=saved component=workorders code=OS-2025-001")
	assert.Contains(t, out, "msg=root\n")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "kind", "network")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "kind=network")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error(context.Background(), "nothing")
	log.With("a", 1).Warn(context.Background(), "nothing")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
