package pipfile

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/core/ports"
)

const NodeID graft.ID = "adapter.pipfile_codec"

func init() {
	graft.Register(graft.Node[ports.ManifestCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ManifestCodec, error) {
			return New(), nil
		},
	})
}
