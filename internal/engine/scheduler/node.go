package scheduler

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/adapters/artifact"  //nolint:depguard // Wired in engine wiring
	"github.com/EricSDavis/MicroC/internal/adapters/env"       //nolint:depguard // Wired in engine wiring
	"github.com/EricSDavis/MicroC/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/EricSDavis/MicroC/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"github.com/EricSDavis/MicroC/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			artifact.NodeID,
			env.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			preparer, err := graft.Dep[ports.EnvPreparer](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(executor, store, preparer, tracer, log), nil
		},
	})
}
