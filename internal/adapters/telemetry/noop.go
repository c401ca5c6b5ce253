// Package telemetry provides shared Telemetry implementations.
package telemetry

import (
	"context"
	"io"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

// Noop is a Telemetry implementation that records nothing. It backs tests
// and quiet mode.
type Noop struct{}

var _ ports.Telemetry = (*Noop)(nil)

// NewNoop creates a new Noop telemetry.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns a vertex that swallows everything written to it.
func (n *Noop) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	vertex := &NoopVertex{}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

// NoopVertex is a no-op implementation of ports.Vertex.
type NoopVertex struct{}

// Stdout returns a writer that discards all output.
func (v *NoopVertex) Stdout() io.Writer {
	return io.Discard
}

// Stderr returns a writer that discards all output.
func (v *NoopVertex) Stderr() io.Writer {
	return io.Discard
}

// Log does nothing.
func (v *NoopVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoopVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoopVertex) Cached() {}
