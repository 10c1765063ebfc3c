package app

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/adapters/artifact"  //nolint:depguard // Wired in app layer
	"github.com/EricSDavis/MicroC/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/EricSDavis/MicroC/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/EricSDavis/MicroC/internal/adapters/samples"   //nolint:depguard // Wired in app layer
	"github.com/EricSDavis/MicroC/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/EricSDavis/MicroC/internal/engine/scheduler"
	"github.com/grindlemire/graft"
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
			config.NodeID,
			samples.NodeID,
			artifact.NodeID,
			scheduler.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			source, err := graft.Dep[ports.SampleSource](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
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

			return New(loader, source, store, sched, tracer, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}
