package ports

import (
	"context"
	"io"

	"github.com/pipkin/pipkin/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry is the entry point for recording units of work.
type Telemetry interface {
	// Record starts recording a new vertex and attaches it to the context.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work, such as a single requirement
// being checked against the index.
type Vertex interface {
	// Stdout returns a writer capturing the vertex's output stream.
	Stdout() io.Writer
	// Stderr returns a writer capturing the vertex's error stream.
	Stderr() io.Writer
	// Log records a structured log message associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished (successfully or with an error).
	Complete(err error)
	// Cached marks the vertex as served from a cache.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Add potential future configuration fields here.
	// For now, it's a placeholder to support the option pattern.
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

type vertexContextKey struct{}

// ContextWithVertex returns a context carrying the given vertex.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexContextKey{}, v)
}

// VertexFromContext returns the vertex carried by the context, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexContextKey{}).(Vertex)
	return v, ok
}
