package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"docbatch/internal/logging"
	"docbatch/internal/queue"
)

// eventFieldOrder lists the event fields worth echoing on the console.
var eventFieldOrder = []string{"output", "message", "exit_code", "duration", "error", "parallelism", "jobs"}

// console serializes log lines and the live progress line on one writer.
type console struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
	progress string
}

func newConsole(w io.Writer, colorize bool) *console {
	return &console{w: w, colorize: colorize}
}

func (c *console) line(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colorize && c.progress != "" {
		fmt.Fprint(c.w, ansiClear)
	}
	fmt.Fprintln(c.w, text)
	if c.colorize && c.progress != "" {
		fmt.Fprint(c.w, c.progress)
	}
}

// setProgress redraws the progress line. It is a no-op off-terminal.
func (c *console) setProgress(stats queue.Stats) {
	if !c.colorize {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = fmt.Sprintf("%s  %d running · %d failed", stats.ProgressText(), stats.Running, stats.Failed)
	fmt.Fprint(c.w, ansiClear+c.progress)
}

func (c *console) clearProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colorize && c.progress != "" {
		fmt.Fprint(c.w, ansiClear)
	}
	c.progress = ""
}

// followEvents echoes hub events until the returned stop function is called.
// stop drains whatever was published before it returns and is safe to call
// more than once.
func (c *console) followEvents(hub *logging.StreamHub) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var since uint64

	go func() {
		defer close(done)
		for {
			events, next, err := hub.Fetch(ctx, since, 0, true)
			since = next
			for _, evt := range events {
				c.line(formatEvent(evt, c.colorize))
			}
			if err != nil {
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			events, _, _ := hub.Fetch(context.Background(), since, 0, false)
			for _, evt := range events {
				c.line(formatEvent(evt, c.colorize))
			}
		})
	}
}

func formatEvent(evt logging.LogEvent, colorize bool) string {
	var b strings.Builder
	b.WriteString(evt.Timestamp.Local().Format("15:04:05"))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s ", evt.Level)
	b.WriteString(evt.Message)
	if evt.Job != "" {
		fmt.Fprintf(&b, " (%s)", filepath.Base(evt.Job))
	}
	for _, key := range eventFieldOrder {
		if value := strings.TrimSpace(evt.Fields[key]); value != "" {
			fmt.Fprintf(&b, " %s=%s", key, value)
		}
	}
	text := b.String()
	if colorize {
		switch evt.Level {
		case "ERROR":
			return ansiRed + text + ansiReset
		case "WARN":
			return ansiYellow + text + ansiReset
		}
	}
	return text
}
