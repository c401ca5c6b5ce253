package toolconfig

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/core/domain"
)

const NodeID graft.ID = "adapter.tool_settings"

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Settings, error) {
			return Load(domain.DefaultSettingsPath(domain.DefaultManifestPath()))
		},
	})
}
