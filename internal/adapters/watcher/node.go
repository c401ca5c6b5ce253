package watcher

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/adapters/toolconfig"
	"github.com/pipkin/pipkin/internal/core/ports"
)

const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{toolconfig.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			settings, err := graft.Dep[*toolconfig.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(settings.WatchDebounce)
		},
	})
}
