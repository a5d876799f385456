package toast

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Show("Publication créée", LevelSuccess)

	assert.Contains(t, buf.String(), "Publication créée")
}

func TestShorthandLevels(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Success("post %d liked", 7)
	e.Error("offline")
	e.Warning("slow network")
	e.Info("loading feed")

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, "post 7 liked")

	active := e.Active(time.Now())
	require.Len(t, active, 4)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, LevelError, active[1].Level)
}

func TestActive_TimeBoxedLifecycle(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	now := time.Now()
	e.now = func() time.Time { return now }

	e.Show("first", LevelInfo)

	// Still visible inside the window.
	require.Len(t, e.Active(now.Add(3*time.Second)), 1)

	// Gone after the display duration.
	assert.Empty(t, e.Active(now.Add(5*time.Second)))
}

func TestShow_PrunesExpired(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	now := time.Now()
	e.now = func() time.Time { return now }

	e.Show("old", LevelInfo)
	now = now.Add(10 * time.Second)
	e.Show("new", LevelInfo)

	active := e.Active(now)
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].Message)
}
