package pyruntime

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/core/ports"
)

const NodeID graft.ID = "adapter.runtime_inspector"

func init() {
	graft.Register(graft.Node[ports.RuntimeInspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.RuntimeInspector, error) {
			return NewInspector(), nil
		},
	})
}
