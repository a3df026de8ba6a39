package wgrender

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/wgrender/surface/surfacetest"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should produce no output")
	}
}

func TestSetLoggerReceivesLifecycle(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r, err := New(fakeWindow{width: 64, height: 64}, nil,
		WithBackend("noop"), WithTargetFactory(surfacetest.New().Factory()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.Close()

	out := buf.String()
	for _, msg := range []string{"renderer created", "surface: configured", "renderer closed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q:\n%s", msg, out)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
