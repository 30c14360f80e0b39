// Package logger exposes a process-wide zap logger behind package-level
// helpers so call sites stay short: logger.Info("msg", zap.String("k", "v")).
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init builds the production logger for the named service and installs it as
// the package-level logger. Returns a flush function for deferred use in main.
func Init(service string) (func(), error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	l = l.With(zap.String("service", service))

	mu.Lock()
	global = l
	mu.Unlock()

	return func() { _ = l.Sync() }, nil
}

// Replace swaps the package-level logger; used by tests.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	global = l
}

// L returns the current package-level logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
