package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewSystemLogger(&buf, LevelDebug, "payhub-test")

	l.Info("order created", LogContext{
		Gateway:   "razorpay",
		RequestID: "req-1",
		Fields:    map[string]any{"order_id": "ord_1"},
	})

	var entry Entry
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, LevelInfo, entry.Level)
	assert.Equal(t, "order created", entry.Message)
	assert.Equal(t, "razorpay", entry.Gateway)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "ord_1", entry.Fields["order_id"])
	assert.Equal(t, "payhub-test", entry.Service)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestSystemLogger_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewSystemLogger(&buf, LevelWarn, "payhub-test")

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	l.Error("kept as well", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestSystemLogger_ErrorAttachesError(t *testing.T) {
	var buf bytes.Buffer
	l := NewSystemLogger(&buf, LevelInfo, "payhub-test")

	l.Error("store failed", assert.AnError)

	var entry Entry
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, LevelError, entry.Level)
	assert.Equal(t, assert.AnError.Error(), entry.Fields["error"])
}

func TestSystemLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewSystemLogger(&buf, LogLevel("verbose"), "payhub-test")

	l.Debug("dropped")
	l.Info("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewSystemLogger(&buf, LevelInfo, "payhub-test"))
	defer SetGlobalLogger(nil)

	Info("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestGlobalLogger_LazyDefault(t *testing.T) {
	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}
