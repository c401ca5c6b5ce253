package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/adapters/lock"               //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/adapters/pipfile"            //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/adapters/toolconfig"         //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"github.com/pipkin/pipkin/internal/core/ports"
	"github.com/pipkin/pipkin/internal/engine/verifier"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pipfile.NodeID,
			verifier.NodeID,
			lock.NodeID,
			watcher.NodeID,
			logger.NodeID,
			toolconfig.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			codec, err := graft.Dep[ports.ManifestCodec](ctx)
			if err != nil {
				return nil, err
			}

			verify, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			lockStore, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}

			manifestWatcher, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*toolconfig.Settings](ctx)
			if err != nil {
				return nil, err
			}

			a := New(codec, verify, lockStore, manifestWatcher, log)
			if settings.IndexURL != "" {
				a = a.WithIndexURL(settings.IndexURL)
			}
			return a, nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
