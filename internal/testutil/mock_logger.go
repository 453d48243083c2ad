// Package testutil holds the test doubles shared by the console packages.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// Entry is one recorded log call. Fields include those bound with With.
type Entry struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value recorded under key, or nil. Later fields win.
func (e Entry) Field(key string) interface{} {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i].Value
		}
	}
	return nil
}

type journal struct {
	mu      sync.Mutex
	entries []Entry
}

// MockLogger records entries in memory. Loggers derived through With and
// Named write into the journal of their parent.
type MockLogger struct {
	journal *journal
	name    string
	bound   []logging.Field
}

var _ logging.Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{journal: &journal{}}
}

func (m *MockLogger) record(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.bound)+len(fields))
	all = append(append(all, m.bound...), fields...)

	m.journal.mu.Lock()
	m.journal.entries = append(m.journal.entries, Entry{Level: level, Logger: m.name, Message: msg, Fields: all})
	m.journal.mu.Unlock()
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.record("error", msg, fields) }

// Fatal records the entry without exiting.
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := *m
	child.bound = append(append([]logging.Field(nil), m.bound...), fields...)
	return &child
}

func (m *MockLogger) Named(name string) logging.Logger {
	child := *m
	child.name = strings.TrimPrefix(m.name+"."+name, ".")
	return &child
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a snapshot of every entry in the shared journal.
func (m *MockLogger) GetMessages() []Entry {
	return m.filter(func(Entry) bool { return true })
}

func (m *MockLogger) ByLevel(level string) []Entry {
	return m.filter(func(e Entry) bool { return e.Level == level })
}

func (m *MockLogger) HasMessage(level, msg string) bool {
	return len(m.filter(func(e Entry) bool { return e.Level == level && e.Message == msg })) > 0
}

// Clear empties the shared journal.
func (m *MockLogger) Clear() {
	m.journal.mu.Lock()
	m.journal.entries = nil
	m.journal.mu.Unlock()
}

func (m *MockLogger) filter(keep func(Entry) bool) []Entry {
	m.journal.mu.Lock()
	defer m.journal.mu.Unlock()
	out := make([]Entry, 0, len(m.journal.entries))
	for _, e := range m.journal.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

//Personal.AI order the ending
