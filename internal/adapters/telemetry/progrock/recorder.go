// Package progrock implements the Telemetry port on the progrock progress
// recording library.
package progrock

import (
	"context"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"github.com/pipkin/pipkin/internal/core/ports"
)

// Recorder implements ports.Telemetry using progrock vertexes.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

var _ ports.Telemetry = (*Recorder)(nil)

// New creates a Recorder that prints vertex transitions to stderr, one line
// per finished unit of work.
func New() ports.Telemetry {
	return NewRecorder(NewConsoleWriter(os.Stderr))
}

// NewRecorder creates a Recorder emitting status updates to the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex. The vertex identity derives from its
// name, so recording the same name twice resumes the same vertex.
func (r *Recorder) Record(ctx context.Context, name string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
