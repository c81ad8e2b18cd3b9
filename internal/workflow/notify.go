package workflow

import (
	"context"

	"docbatch/internal/queue"
)

// Subscribe returns a channel receiving queue stats after every mutation.
// The channel holds only the latest value; a slow reader skips intermediate
// updates. It is closed when ctx is done.
func (e *Engine) Subscribe(ctx context.Context) <-chan queue.Stats {
	ch := make(chan queue.Stats, 1)
	ch <- e.queue.Stats()

	e.subsMu.Lock()
	e.subs[ch] = struct{}{}
	e.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		e.subsMu.Lock()
		delete(e.subs, ch)
		close(ch)
		e.subsMu.Unlock()
	}()
	return ch
}

func (e *Engine) publish() {
	stats := e.queue.Stats()
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- stats:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- stats:
		default:
		}
	}
}
