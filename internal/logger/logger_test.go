package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := ParseLogLevel(tc.input); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestContextRequestLogger(t *testing.T) {
	base := slog.Default()

	ctx := ContextWithRequestLogger(context.Background(), base)
	if got := ContextRequestLogger(ctx); got != base {
		t.Error("ContextRequestLogger() did not return the stored logger")
	}

	// falls back to the default logger when none is stored
	if got := ContextRequestLogger(context.Background()); got == nil {
		t.Error("ContextRequestLogger() should never return nil")
	}
}

func TestContextLogAttrs(t *testing.T) {
	ctx := ContextWithRequestLogger(context.Background(), slog.Default())

	ContextWithLogAttrs(ctx, slog.String("stream_id", "stream:abc"))
	ContextWithLogAttrs(ctx, slog.Int("attempt", 2))

	attrs := ContextLogAttrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}
	if attrs[0].Key != "stream_id" {
		t.Errorf("attrs[0].Key = %v, want stream_id", attrs[0].Key)
	}

	// no holder in context is a no-op
	ContextWithLogAttrs(context.Background(), slog.String("k", "v"))
	if got := ContextLogAttrs(context.Background()); got != nil {
		t.Errorf("ContextLogAttrs() on bare context = %v, want nil", got)
	}
}
