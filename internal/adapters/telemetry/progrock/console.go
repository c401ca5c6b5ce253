package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// ConsoleWriter renders progrock status updates as plain lines, one per
// vertex transition: "✓ name" on success, "✗ name (reason)" on failure, and
// "• name (cached)" for cache hits. Running vertexes stay silent until they
// finish, so the output reads as a log rather than a repaint.
type ConsoleWriter struct {
	mu   sync.Mutex
	w    io.Writer
	done map[string]bool
}

var _ progrock.Writer = (*ConsoleWriter)(nil)

// NewConsoleWriter creates a ConsoleWriter emitting to w.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		w:    w,
		done: make(map[string]bool),
	}
}

// WriteStatus prints a line for every vertex that reached a terminal state
// in this update. Repeated updates for an already-finished vertex are
// ignored.
func (c *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		if c.done[v.Id] {
			continue
		}

		switch {
		case v.Error != nil:
			c.done[v.Id] = true
			fmt.Fprintf(c.w, "✗ %s (%s)\n", v.Name, v.GetError())
		case v.Cached:
			c.done[v.Id] = true
			fmt.Fprintf(c.w, "• %s (cached)\n", v.Name)
		case v.Completed != nil:
			c.done[v.Id] = true
			fmt.Fprintf(c.w, "✓ %s\n", v.Name)
		}
	}

	return nil
}

// Close does nothing; the underlying writer is owned by the caller.
func (c *ConsoleWriter) Close() error {
	return nil
}
