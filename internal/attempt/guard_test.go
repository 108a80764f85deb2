package attempt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuardDisarmedLetsExitThrough(t *testing.T) {
	g := NewGuard(3 * time.Second)

	assert.False(t, g.Intercept())
	_, visible := g.Warning()
	assert.False(t, visible)
}

func TestGuardWarningLastsWindow(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	g := NewGuard(3 * time.Second)
	g.now = func() time.Time { return now }
	g.Arm()

	assert.True(t, g.Intercept())
	msg, visible := g.Warning()
	assert.True(t, visible)
	assert.Equal(t, GuardMessage, msg)

	now = now.Add(2999 * time.Millisecond)
	_, visible = g.Warning()
	assert.True(t, visible)

	now = now.Add(time.Millisecond)
	_, visible = g.Warning()
	assert.False(t, visible)
	assert.Equal(t, 1, g.Intercepted())
}

func TestGuardDisarmHidesWarning(t *testing.T) {
	g := NewGuard(time.Minute)
	g.Arm()
	g.Intercept()

	g.Disarm()

	_, visible := g.Warning()
	assert.False(t, visible)
	assert.False(t, g.Intercept())
}
