package logger

import (
	"os"
	"sync"
)

var (
	global *SystemLogger
	mu     sync.RWMutex
)

// SetGlobalLogger replaces the package-level logger.
func SetGlobalLogger(l *SystemLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// GetGlobalLogger returns the package-level logger, creating a default
// stdout logger on first use.
func GetGlobalLogger() *SystemLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = NewSystemLogger(os.Stdout, LevelInfo, "payhub")
	}
	return global
}

// Debug logs a debug message with the global logger.
func Debug(message string, ctx ...LogContext) {
	GetGlobalLogger().Debug(message, ctx...)
}

// Info logs an info message with the global logger.
func Info(message string, ctx ...LogContext) {
	GetGlobalLogger().Info(message, ctx...)
}

// Warn logs a warning message with the global logger.
func Warn(message string, ctx ...LogContext) {
	GetGlobalLogger().Warn(message, ctx...)
}

// Error logs an error message with the global logger.
func Error(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Error(message, err, ctx...)
}
