package attempt

import (
	"sync"
	"time"
)

// GuardMessage is shown when a student tries to leave a running attempt.
const GuardMessage = "You cannot go back till test is going on"

// Guard intercepts exit attempts while an attempt is running and keeps a
// transient warning visible. It is a deterrent only: a forced termination
// still ends the process.
type Guard struct {
	window time.Duration
	now    func() time.Time

	mu          sync.Mutex
	armed       bool
	until       time.Time
	intercepted int
}

// NewGuard returns a disarmed guard whose warning lasts window.
func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = 3 * time.Second
	}
	return &Guard{window: window, now: time.Now}
}

// Arm starts intercepting.
func (g *Guard) Arm() {
	g.mu.Lock()
	g.armed = true
	g.mu.Unlock()
}

// Disarm stops intercepting and hides the warning.
func (g *Guard) Disarm() {
	g.mu.Lock()
	g.armed = false
	g.until = time.Time{}
	g.mu.Unlock()
}

// Window is how long the warning stays visible after an interception.
func (g *Guard) Window() time.Duration {
	return g.window
}

// Intercept records an exit attempt. It returns false when the guard is
// disarmed and the exit should proceed.
func (g *Guard) Intercept() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.armed {
		return false
	}
	g.intercepted++
	g.until = g.now().Add(g.window)
	return true
}

// Warning returns the message while it is still visible.
func (g *Guard) Warning() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.armed && g.now().Before(g.until) {
		return GuardMessage, true
	}
	return "", false
}

// Intercepted counts exit attempts since creation.
func (g *Guard) Intercepted() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.intercepted
}
