package verifier

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/pipkin/pipkin/internal/adapters/pypi"               //nolint:depguard // Wired in engine wiring
	"github.com/pipkin/pipkin/internal/adapters/pyruntime"          //nolint:depguard // Wired in engine wiring
	"github.com/pipkin/pipkin/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/pipkin/pipkin/internal/adapters/toolconfig"         //nolint:depguard // Wired in engine wiring
	"github.com/pipkin/pipkin/internal/core/ports"
)

// NodeID is the unique identifier for the verifier Graft node.
const NodeID graft.ID = "engine.verifier"

func init() {
	graft.Register(graft.Node[ports.Verifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pypi.NodeID,
			pyruntime.NodeID,
			progrock.NodeID,
			toolconfig.NodeID,
		},
		Run: func(ctx context.Context) (ports.Verifier, error) {
			index, err := graft.Dep[ports.PackageIndex](ctx)
			if err != nil {
				return nil, err
			}

			inspector, err := graft.Dep[ports.RuntimeInspector](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*toolconfig.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return NewVerifier(index, inspector, telemetry, settings.VerifyJobs), nil
		},
	})
}
