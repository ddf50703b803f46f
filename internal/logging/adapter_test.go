package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Logger() == nil {
		t.Fatal("adapter.Logger() should default to slog.Default()")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(NewHandler(&buf, true)))

	adapter.Debug("debug message", "k", 1)
	adapter.Info("info message")
	adapter.Warn("warn message")
	adapter.Error("error message")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "k=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	var _ Logger = Discard()
	Discard().Error("dropped")
}

func TestDefaultLogger(t *testing.T) {
	if DefaultLogger().Logger() != slog.Default() {
		t.Error("DefaultLogger should wrap slog.Default()")
	}
}
