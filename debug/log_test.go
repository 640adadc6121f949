package debug

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Logger().Warn("convert failed", zap.String("pdu", "ip4"))
	if logs.Len() != 1 {
		t.Fatalf("got %d entries, want 1", logs.Len())
	}
	e := logs.All()[0]
	if e.Message != "convert failed" || e.ContextMap()["pdu"] != "ip4" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
	}{
		{"", false},
		{"debug", true},
		{"error", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		l := newLogger(tt.level)
		if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Errorf("level %q: debug enabled %v, want %v", tt.level, got, tt.debug)
		}
	}
}
