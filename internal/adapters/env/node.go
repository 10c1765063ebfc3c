package env

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the environment preparer Graft node.
const NodeID graft.ID = "adapter.env_preparer"

func init() {
	graft.Register(graft.Node[ports.EnvPreparer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvPreparer, error) {
			return NewPreparer(), nil
		},
	})
}
