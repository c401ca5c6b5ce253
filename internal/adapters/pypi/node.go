package pypi

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/adapters/toolconfig"
	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

const NodeID graft.ID = "adapter.package_index"

func init() {
	graft.Register(graft.Node[ports.PackageIndex]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{toolconfig.NodeID},
		Run: func(ctx context.Context) (ports.PackageIndex, error) {
			settings, err := graft.Dep[*toolconfig.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewClientWithConfig(domain.DefaultIndexCachePath(),
				settings.RequestTimeout, settings.CacheTTL)
		},
	})
}
