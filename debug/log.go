package debug

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	logger *zap.Logger
)

// Logger returns the process logger. It is built on first use from the
// zap production config, at the level named by TAD_LOG_LEVEL (default
// info).
func Logger() *zap.Logger {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	if l != nil {
		return l
	}
	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		logger = newLogger(os.Getenv("TAD_LOG_LEVEL"))
	}
	return logger
}

// SetLogger replaces the process logger. A nil logger restores the
// default on next use.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

func newLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
