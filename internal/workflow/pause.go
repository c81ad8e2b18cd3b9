package workflow

import (
	"context"
	"sync"
)

// pauseGate blocks units from starting while paused. A fresh channel is
// installed on every pause and closed on resume, releasing all waiters.
type pauseGate struct {
	mu     sync.Mutex
	paused bool
	ch     chan struct{}
}

func (g *pauseGate) pause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return false
	}
	g.paused = true
	g.ch = make(chan struct{})
	return true
}

func (g *pauseGate) resume() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return false
	}
	g.paused = false
	close(g.ch)
	g.ch = nil
	return true
}

func (g *pauseGate) isPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// wait returns once the gate is open or ctx is done. The channel is captured
// under the same lock that reads the flag, so a resume between the check and
// the receive cannot be missed.
func (g *pauseGate) wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		if !g.paused {
			g.mu.Unlock()
			return ctx.Err()
		}
		ch := g.ch
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
