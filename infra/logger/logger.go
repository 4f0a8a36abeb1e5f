package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log entry.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

var levelOrder = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Entry is a structured log entry, rendered as one JSON line.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Gateway   string         `json:"gateway,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Service   string         `json:"service"`
}

// LogContext holds contextual information for a log entry.
type LogContext struct {
	Gateway   string
	RequestID string
	Fields    map[string]any
}

// SystemLogger writes structured JSON log lines.
type SystemLogger struct {
	out      io.Writer
	minLevel LogLevel
	service  string
	mu       sync.Mutex
}

// NewSystemLogger creates a logger writing to out at the given minimum level.
func NewSystemLogger(out io.Writer, minLevel LogLevel, service string) *SystemLogger {
	if out == nil {
		out = os.Stdout
	}
	if _, ok := levelOrder[minLevel]; !ok {
		minLevel = LevelInfo
	}

	return &SystemLogger{
		out:      out,
		minLevel: minLevel,
		service:  service,
	}
}

// Debug logs a debug message.
func (sl *SystemLogger) Debug(message string, ctx ...LogContext) {
	sl.log(LevelDebug, message, ctx...)
}

// Info logs an info message.
func (sl *SystemLogger) Info(message string, ctx ...LogContext) {
	sl.log(LevelInfo, message, ctx...)
}

// Warn logs a warning message.
func (sl *SystemLogger) Warn(message string, ctx ...LogContext) {
	sl.log(LevelWarn, message, ctx...)
}

// Error logs an error message, attaching err to the fields.
func (sl *SystemLogger) Error(message string, err error, ctx ...LogContext) {
	logCtx := LogContext{}
	if len(ctx) > 0 {
		logCtx = ctx[0]
	}

	if logCtx.Fields == nil {
		logCtx.Fields = make(map[string]any)
	}
	if err != nil {
		logCtx.Fields["error"] = err.Error()
	}

	sl.log(LevelError, message, logCtx)
}

func (sl *SystemLogger) log(level LogLevel, message string, ctx ...LogContext) {
	if levelOrder[level] < levelOrder[sl.minLevel] {
		return
	}

	logCtx := LogContext{}
	if len(ctx) > 0 {
		logCtx = ctx[0]
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Gateway:   logCtx.Gateway,
		RequestID: logCtx.RequestID,
		Fields:    logCtx.Fields,
		Service:   sl.service,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.out.Write(append(line, '\n'))
}
