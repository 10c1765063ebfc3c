package samples

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/adapters/logger"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the sample source Graft node.
const NodeID graft.ID = "adapter.sample_source"

func init() {
	graft.Register(graft.Node[ports.SampleSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SampleSource, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(log), nil
		},
	})
}
