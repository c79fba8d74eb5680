package logger

import (
	"fmt"
	"strings"
	"sync"
)

// LogMessage is one captured log call.
type LogMessage struct {
	Level string
	Msg   string
	Args  []any
}

// MockLogger captures log calls for test assertions. Loggers derived via
// With share the parent's message slice and mutex, so a test can install
// one mock with SetGlobalLogger and inspect everything a component and
// its child loggers recorded.
type MockLogger struct {
	Messages *[]LogMessage
	mu       *sync.Mutex
	attrs    []any
}

// NewMockLogger creates an empty mock logger.
func NewMockLogger() *MockLogger {
	messages := make([]LogMessage, 0)
	return &MockLogger{
		Messages: &messages,
		mu:       &sync.Mutex{},
	}
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	merged := make([]any, 0, len(m.attrs)+len(args))
	merged = append(merged, m.attrs...)
	merged = append(merged, args...)
	*m.Messages = append(*m.Messages, LogMessage{Level: level, Msg: msg, Args: merged})
}

// Debug captures a debug call.
func (m *MockLogger) Debug(msg string, args ...any) { m.record("DEBUG", msg, args) }

// Info captures an info call.
func (m *MockLogger) Info(msg string, args ...any) { m.record("INFO", msg, args) }

// Warn captures a warn call.
func (m *MockLogger) Warn(msg string, args ...any) { m.record("WARN", msg, args) }

// Error captures an error call.
func (m *MockLogger) Error(msg string, args ...any) { m.record("ERROR", msg, args) }

// With returns a child logger whose attributes prefix the args of every
// call it captures. The message slice stays shared with the parent.
func (m *MockLogger) With(args ...any) Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := make([]any, 0, len(m.attrs)+len(args))
	attrs = append(attrs, m.attrs...)
	attrs = append(attrs, args...)
	return &MockLogger{
		Messages: m.Messages,
		mu:       m.mu,
		attrs:    attrs,
	}
}

// WithGroup records the group name as an attribute. The mock does not
// nest keys the way slog does; tests only assert on messages and flat
// key/value pairs.
func (m *MockLogger) WithGroup(name string) Logger {
	return m.With("group", name)
}

// HasMessage reports whether a call at level logged exactly msg.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, lm := range *m.Messages {
		if lm.Level == level && lm.Msg == msg {
			return true
		}
	}
	return false
}

// HasMessageContaining reports whether a call at level logged a message
// containing substr.
func (m *MockLogger) HasMessageContaining(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, lm := range *m.Messages {
		if lm.Level == level && strings.Contains(lm.Msg, substr) {
			return true
		}
	}
	return false
}

// Clear drops all captured messages.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.Messages = (*m.Messages)[:0]
}

// String renders the captured calls one per line, oldest first.
func (m *MockLogger) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, lm := range *m.Messages {
		fmt.Fprintf(&b, "[%s] %s %v\n", lm.Level, lm.Msg, lm.Args)
	}
	return b.String()
}
