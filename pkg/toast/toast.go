package toast

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DefaultDuration is how long a toast stays active, matching the web
// client's four second display window.
const DefaultDuration = 4 * time.Second

// Level is a toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Toast is one transient feedback message.
type Toast struct {
	Message   string
	Level     Level
	CreatedAt time.Time
}

// Emitter renders transient feedback messages and keeps the recent ones
// for their display duration. Toasts are never persisted.
type Emitter struct {
	mu       sync.Mutex
	out      io.Writer
	duration time.Duration
	recent   []Toast

	now func() time.Time
}

// NewEmitter creates an emitter writing to out. A nil out defaults to
// stderr so toasts never mix with data output on stdout.
func NewEmitter(out io.Writer) *Emitter {
	if out == nil {
		out = os.Stderr
	}
	return &Emitter{out: out, duration: DefaultDuration, now: time.Now}
}

// Show renders a toast and records it.
func (e *Emitter) Show(message string, level Level) {
	e.mu.Lock()
	now := e.now()
	e.recent = append(e.recent, Toast{Message: message, Level: level, CreatedAt: now})
	e.prune(now)
	e.mu.Unlock()

	e.render(message, level)
}

// Success is shorthand for Show with LevelSuccess.
func (e *Emitter) Success(format string, args ...interface{}) {
	e.Show(fmt.Sprintf(format, args...), LevelSuccess)
}

// Error is shorthand for Show with LevelError.
func (e *Emitter) Error(format string, args ...interface{}) {
	e.Show(fmt.Sprintf(format, args...), LevelError)
}

// Warning is shorthand for Show with LevelWarning.
func (e *Emitter) Warning(format string, args ...interface{}) {
	e.Show(fmt.Sprintf(format, args...), LevelWarning)
}

// Info is shorthand for Show with LevelInfo.
func (e *Emitter) Info(format string, args ...interface{}) {
	e.Show(fmt.Sprintf(format, args...), LevelInfo)
}

// Active returns the toasts still inside their display window at now.
func (e *Emitter) Active(now time.Time) []Toast {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Toast
	for _, tst := range e.recent {
		if now.Sub(tst.CreatedAt) < e.duration {
			out = append(out, tst)
		}
	}
	return out
}

// prune drops toasts past their display window. Caller holds the lock.
func (e *Emitter) prune(now time.Time) {
	kept := e.recent[:0]
	for _, tst := range e.recent {
		if now.Sub(tst.CreatedAt) < e.duration {
			kept = append(kept, tst)
		}
	}
	e.recent = kept
}

func (e *Emitter) render(message string, level Level) {
	icon, c := "ℹ", color.New(color.FgCyan)
	switch level {
	case LevelSuccess:
		icon, c = "✓", color.New(color.FgGreen)
	case LevelError:
		icon, c = "✕", color.New(color.FgRed)
	case LevelWarning:
		icon, c = "⚠", color.New(color.FgYellow)
	}

	c.Fprintf(e.out, "%s %s\n", icon, message)
}
