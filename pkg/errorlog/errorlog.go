package errorlog

import (
	"sync"
	"time"
)

// MaxEntries bounds the rolling log; the oldest entry is dropped first.
const MaxEntries = 100

// Entry is one recorded failure.
type Entry struct {
	Message   string    `json:"message"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an in-memory rolling error log. Managers record every failure
// here before converting it to user-facing feedback, so the original
// error detail survives the normalized message.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	max     int

	now func() time.Time
}

// New creates an empty log bounded to MaxEntries.
func New() *Log {
	return &Log{max: MaxEntries, now: time.Now}
}

// Add records err with an operation context label. A nil err is ignored.
func (l *Log) Add(err error, context string) {
	if err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Message:   err.Error(),
		Context:   context,
		Timestamp: l.now(),
	})
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns a copy of the recorded entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
